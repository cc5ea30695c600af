package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/jhoicas/jobhunter-api/internal/infrastructure/mail"
	"github.com/jhoicas/jobhunter-api/pkg/config"
	"github.com/jhoicas/jobhunter-api/pkg/logger"
)

// Worker que consume la cola de correos de verificación y los entrega por SMTP.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := mail.NewConsumer(cfg.AMQP.URL, cfg.AMQP.Queue, mail.NewSMTPMailer(cfg.Mail), log)
	log.Info().Str("queue", cfg.AMQP.Queue).Msg("mailer iniciado")

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("consumidor de correos")
	}
	log.Info().Msg("mailer detenido")
}
