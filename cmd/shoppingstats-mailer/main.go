package main

import (
	"context"
	"errors"
	"os"
	"time"

	"shoppingstats/internal/amqp"
	"shoppingstats/internal/cli"
	"shoppingstats/internal/config"
	"shoppingstats/internal/log"
	"shoppingstats/internal/mail"
	"shoppingstats/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Stdout, os.Getenv("LOG_LEVEL"), log.ComponentWorker)
	logger.Info("Starting shoppingstats-mailer")

	cfg := cli.LoadAndValidateConfig(logger, nil)
	if err := requireMailerConfig(cfg); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	sender, err := mail.NewSender(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.EmailUser,
		Password: cfg.EmailPass,
	})
	if err != nil {
		logger.Error("Failed to initialize mail sender", log.FieldError, err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if err := amqpClient.Close(); err != nil {
			logger.Warn("Failed to close AMQP client", log.FieldError, err)
		}
	})
	ctx = log.NewContext(ctx, logger)

	mailWorker := worker.NewMailWorker(sender, cfg.DeliveryTimeout)

	logger.Info("Consuming report messages",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	if err := amqpClient.ConsumeWithRetry(ctx, mailWorker.HandleReportMessage); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	<-done
}

func requireMailerConfig(cfg *config.Config) error {
	var errs []error
	if !cfg.QueueEnabled() {
		errs = append(errs, errors.New("AMQP_URL is required"))
	}
	if !cfg.EmailEnabled() {
		errs = append(errs, errors.New("EMAIL_USER and EMAIL_PASS are required"))
	}
	return errors.Join(errs...)
}
