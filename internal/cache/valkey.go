// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cache holds the Valkey side of wedsite: the client shared with
// login sessions, and the cache of rendered public wedding pages and the
// invitation card catalog.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultPingTimeout bounds the startup check when none is configured.
const defaultPingTimeout = 5 * time.Second

// ValkeyOptions locates the Valkey server. Sessions and cached pages share
// one logical database.
type ValkeyOptions struct {
	Host        string
	Port        string
	Password    string
	DB          int
	PingTimeout time.Duration
}

func (o ValkeyOptions) addr() string {
	return net.JoinHostPort(o.Host, o.Port)
}

// ConnectValkey creates the shared client and fails fast when the server
// does not answer a ping.
func ConnectValkey(ctx context.Context, opts ValkeyOptions) (*redis.Client, error) {
	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.addr(),
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping %s db %d: %w", opts.addr(), opts.DB, err)
	}

	slog.Info("valkey connected", "addr", opts.addr(), "db", opts.DB)
	return client, nil
}
