package main

import (
	"log"

	"github.com/ibrahimchallal/tournament_service/config"
	"github.com/ibrahimchallal/tournament_service/infra/queue"
	"github.com/ibrahimchallal/tournament_service/internal/api"
	"github.com/ibrahimchallal/tournament_service/internal/services"
)

func main() {
	cfg := config.LoadConfig()

	if cfg.MailEnabled {
		mailService := services.NewMailService(
			cfg.GmailUser,
			cfg.GmailAppPassword,
			cfg.MailFrom,
			cfg.MailFromName,
			cfg.MailSubject,
		)
		consumer := queue.NewKafkaConsumer(
			cfg.KafkaBroker,
			cfg.KafkaTopic,
			cfg.KafkaGroupID,
			cfg.KafkaUsername,
			cfg.KafkaPassword,
			services.NewMailEventHandler(mailService),
		)
		log.Println("confirmation mailer listening for events...")
		go consumer.Listen()
	}

	api.StartServer(cfg)
}
