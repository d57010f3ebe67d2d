// Command reminder-cron triggers the daily reminder run of the portal on a
// cron schedule by calling its protected endpoint.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/config"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/service"
	applogger "github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/logger"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/response"
)

func main() {
	configPath := flag.String("config", "", "path to the config file")
	once := flag.Bool("once", false, "trigger a single run and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	client := &http.Client{Timeout: 2 * time.Minute}
	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()
		result, err := trigger(ctx, client, cfg.Cron.TargetURL, cfg.Cron.Secret)
		if err != nil {
			logger.Error("reminder run failed", zap.String("target", cfg.Cron.TargetURL), zap.Error(err))
			return
		}
		logger.Info("reminder run finished",
			zap.Int("sent", result.Sent),
			zap.Int("failed", result.Failed),
			zap.Int("evaluated", result.Evaluated),
		)
	}

	if *once {
		run()
		return
	}

	loc := service.ReminderPolicy(cfg.Reminder, logger).Location
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := c.AddFunc(cfg.Cron.Schedule, run); err != nil {
		logger.Fatal("invalid cron schedule", zap.String("schedule", cfg.Cron.Schedule), zap.Error(err))
	}
	c.Start()
	logger.Info("reminder cron started",
		zap.String("schedule", cfg.Cron.Schedule),
		zap.String("timezone", loc.String()),
		zap.String("target", cfg.Cron.TargetURL),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	<-c.Stop().Done()
	logger.Info("reminder cron stopped")
}

// trigger POSTs to the reminder endpoint with the shared secret and decodes
// the counters from the response envelope.
func trigger(ctx context.Context, client *http.Client, target, secret string) (*dto.ReminderResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+secret)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var result dto.ReminderResult
	env := response.Response{Data: &result}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}
