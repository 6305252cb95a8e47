// Command prefetch warms the hotel-content cache for a configured list of
// hotel codes so the busiest detail pages never take a cold vendor hit.
package main

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/hasratyan/aoryx.am/internal/adapters/aoryx"
	"github.com/hasratyan/aoryx.am/internal/adapters/observability"
	redisad "github.com/hasratyan/aoryx.am/internal/adapters/redis"
	"github.com/hasratyan/aoryx.am/internal/app"
	"github.com/hasratyan/aoryx.am/internal/shared"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.AoryxBase).
		Int("workers", cfg.PrefetchWorkers).
		Int("codes", len(cfg.PrefetchCodes)).
		Msg("prefetch starting")

	if len(cfg.PrefetchCodes) == 0 {
		log.Warn().Msg("PREFETCH_HOTEL_CODES is empty; nothing to do")
		return
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cache.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("redis ping failed")
	}

	vendor, err := aoryx.New(cfg.AoryxBase, cfg.AoryxKey, cfg.AoryxTimeout, cfg.AoryxRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Aoryx client")
	}
	q := app.NewQueryService(vendor, cache, cfg.CacheTTL, cfg.RatesTTL, cfg.DefaultCurrency)

	sem := semaphore.NewWeighted(int64(cfg.PrefetchWorkers))
	var wg sync.WaitGroup

	for _, code := range cfg.PrefetchCodes {
		code := code

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(hotelCode string) {
			defer wg.Done()
			defer sem.Release(1)

			if err := q.WarmHotel(ctx, hotelCode); err != nil {
				log.Warn().Str("code", hotelCode).Err(err).Msg("prefetch failed")
				return
			}
			log.Info().Str("code", hotelCode).Msg("prefetch ok")
		}(code)
	}

	wg.Wait()
	log.Info().Msg("prefetch completed")
}
