package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/evyataryagoni/ipinfo/internal/config"
	"github.com/evyataryagoni/ipinfo/internal/ipinfo"
	"github.com/evyataryagoni/ipinfo/internal/logger"
	"github.com/evyataryagoni/ipinfo/internal/store"
)

// This tool pre-fetches a list of IPv4 addresses through the provider
// and seeds the Redis cache, so the first real lookups are warm.
//
// Usage:
//
//	go run cmd/warm-cache/main.go 8.8.8.8 1.1.1.1
//	cat ips.txt | go run cmd/warm-cache/main.go
func main() {
	fmt.Println("🔄 Warming the lookup cache...")

	appConfig := config.Load()
	appLogger := logger.New(logger.Config{Level: "warn", Pretty: true})

	fmt.Printf("📡 Connecting to Redis at %s...\n", appConfig.RedisAddr)
	redisStore, err := store.NewRedisStore(appConfig.RedisAddr, appConfig.RedisPassword, appConfig.RedisDB, appConfig.CacheTTL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisStore.Close()

	client := ipinfo.New(ipinfo.Config{
		BaseURL: appConfig.ProviderBaseURL,
		Token:   appConfig.ProviderToken,
		Timeout: appConfig.ProviderTimeout,
		Logger:  appLogger,
	})

	ips := readAddresses()
	if len(ips) == 0 {
		log.Fatal("No addresses given: pass IPv4 addresses as arguments or on stdin")
	}

	ctx := context.Background()
	warmed := 0
	for _, ip := range ips {
		info, err := client.Fetch(ctx, ip)
		if err != nil {
			fmt.Printf("⚠️  %s: %v\n", ip, err)
			continue
		}
		if err := redisStore.Set(ip, info); err != nil {
			fmt.Printf("⚠️  %s: failed to cache: %v\n", ip, err)
			continue
		}
		warmed++
	}

	fmt.Printf("✅ Warmed %d of %d addresses\n", warmed, len(ips))
}

// readAddresses collects addresses from the command line, or from
// stdin when no arguments are given (one address per line).
func readAddresses() []string {
	if len(os.Args) > 1 {
		return os.Args[1:]
	}

	var ips []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ips = append(ips, line)
	}
	return ips
}
