// Package ingestion delivers ordered ledger events from NATS JetStream
// to the processor. The shell parses and validates payloads; the core
// never sees raw bytes.
package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"
)

// NATSSubscriber subscribes to JetStream subjects and feeds raw events
// into the eventChan. Delivery order within a subject follows publish
// order; the upstream publisher emits events already ordered by
// (block, transaction, log) position.
type NATSSubscriber struct {
	js        jetstream.JetStream
	eventChan chan<- RawEvent
	consumers []jetstream.ConsumeContext
	log       zerolog.Logger
}

// RawEvent is one undecoded event from NATS, ready for the parser.
// DeliveryID correlates log lines across parse, process, and ack.
type RawEvent struct {
	DeliveryID uuid.UUID
	Subject    string
	EventType  string
	Data       []byte
	Received   time.Time
	AckFunc    func() // ack after the event's store transaction commits
	NakFunc    func() // nak on failure, the event will be redelivered
}

// SubjectConfig maps one NATS subject to an event type.
type SubjectConfig struct {
	Subject      string
	EventType    string
	ConsumerName string
	StreamName   string
}

// DefaultSubjects returns the standard subject configuration. Each event
// type has its own subject; streams are split by the emitting contract.
func DefaultSubjects() []SubjectConfig {
	return []SubjectConfig{
		{Subject: "ledger.escrow.deposit", EventType: "Deposit", ConsumerName: "cashledger-deposit", StreamName: "LEDGER_ESCROW"},
		{Subject: "ledger.escrow.withdraw", EventType: "Withdraw", ConsumerName: "cashledger-withdraw", StreamName: "LEDGER_ESCROW"},
		{Subject: "ledger.escrow.liquidate", EventType: "Liquidate", ConsumerName: "cashledger-liquidate", StreamName: "LEDGER_ESCROW"},
		{Subject: "ledger.escrow.liquidate_batch", EventType: "LiquidateBatch", ConsumerName: "cashledger-liquidate-batch", StreamName: "LEDGER_ESCROW"},
		{Subject: "ledger.escrow.settle_cash", EventType: "SettleCash", ConsumerName: "cashledger-settle-cash", StreamName: "LEDGER_ESCROW"},
		{Subject: "ledger.escrow.settle_cash_batch", EventType: "SettleCashBatch", ConsumerName: "cashledger-settle-cash-batch", StreamName: "LEDGER_ESCROW"},
		{Subject: "ledger.escrow.new_currency", EventType: "NewCurrency", ConsumerName: "cashledger-new-currency", StreamName: "LEDGER_ESCROW"},
		{Subject: "ledger.escrow.update_exchange_rate", EventType: "UpdateExchangeRate", ConsumerName: "cashledger-update-er", StreamName: "LEDGER_ESCROW"},
		{Subject: "ledger.escrow.set_discounts", EventType: "SetDiscounts", ConsumerName: "cashledger-set-discounts", StreamName: "LEDGER_ESCROW"},
		{Subject: "ledger.escrow.set_reserve", EventType: "SetReserveAccount", ConsumerName: "cashledger-set-reserve", StreamName: "LEDGER_ESCROW"},
		{Subject: "ledger.market.add_liquidity", EventType: "AddLiquidity", ConsumerName: "cashledger-add-liquidity", StreamName: "LEDGER_MARKET"},
		{Subject: "ledger.market.remove_liquidity", EventType: "RemoveLiquidity", ConsumerName: "cashledger-remove-liquidity", StreamName: "LEDGER_MARKET"},
		{Subject: "ledger.market.take_cash", EventType: "TakeCash", ConsumerName: "cashledger-take-cash", StreamName: "LEDGER_MARKET"},
		{Subject: "ledger.market.take_position", EventType: "TakePosition", ConsumerName: "cashledger-take-position", StreamName: "LEDGER_MARKET"},
		{Subject: "ledger.market.update_rate_factors", EventType: "UpdateRateFactors", ConsumerName: "cashledger-rate-factors", StreamName: "LEDGER_MARKET"},
		{Subject: "ledger.market.update_max_trade_size", EventType: "UpdateMaxTradeSize", ConsumerName: "cashledger-max-trade-size", StreamName: "LEDGER_MARKET"},
		{Subject: "ledger.market.update_fees", EventType: "UpdateFees", ConsumerName: "cashledger-update-fees", StreamName: "LEDGER_MARKET"},
		{Subject: "ledger.portfolio.new_group", EventType: "NewGroup", ConsumerName: "cashledger-new-group", StreamName: "LEDGER_PORTFOLIO"},
		{Subject: "ledger.portfolio.update_group", EventType: "UpdateGroup", ConsumerName: "cashledger-update-group", StreamName: "LEDGER_PORTFOLIO"},
		{Subject: "ledger.portfolio.settle_account", EventType: "SettlePortfolio", ConsumerName: "cashledger-settle-account", StreamName: "LEDGER_PORTFOLIO"},
		{Subject: "ledger.portfolio.settle_account_batch", EventType: "SettlePortfolioBatch", ConsumerName: "cashledger-settle-account-batch", StreamName: "LEDGER_PORTFOLIO"},
		{Subject: "ledger.portfolio.set_haircuts", EventType: "SetHaircuts", ConsumerName: "cashledger-set-haircuts", StreamName: "LEDGER_PORTFOLIO"},
		{Subject: "ledger.portfolio.set_max_positions", EventType: "SetMaxPositions", ConsumerName: "cashledger-set-max-positions", StreamName: "LEDGER_PORTFOLIO"},
		{Subject: "ledger.token.transfer_single", EventType: "TransferSingle", ConsumerName: "cashledger-transfer-single", StreamName: "LEDGER_TOKEN"},
		{Subject: "ledger.token.transfer_batch", EventType: "TransferBatch", ConsumerName: "cashledger-transfer-batch", StreamName: "LEDGER_TOKEN"},
		{Subject: "ledger.oracle.answer", EventType: "OracleAnswer", ConsumerName: "cashledger-oracle-answer", StreamName: "LEDGER_ORACLE"},
	}
}

func NewNATSSubscriber(js jetstream.JetStream, eventChan chan<- RawEvent, log zerolog.Logger) *NATSSubscriber {
	return &NATSSubscriber{
		js:        js,
		eventChan: eventChan,
		log:       log,
	}
}

// Subscribe creates JetStream consumers for all configured subjects.
// Consumers use explicit ACK, max_deliver=5, ack_wait=30s.
func (ns *NATSSubscriber) Subscribe(ctx context.Context, subjects []SubjectConfig) error {
	for _, cfg := range subjects {
		cfg := cfg
		consumer, err := ns.js.CreateOrUpdateConsumer(ctx, cfg.StreamName, jetstream.ConsumerConfig{
			Durable:       cfg.ConsumerName,
			FilterSubject: cfg.Subject,
			AckPolicy:     jetstream.AckExplicitPolicy,
			AckWait:       30 * time.Second,
			MaxDeliver:    5,
			DeliverPolicy: jetstream.DeliverAllPolicy,
		})
		if err != nil {
			return fmt.Errorf("create consumer %s: %w", cfg.ConsumerName, err)
		}

		consumerContext, err := consumer.Consume(func(msg jetstream.Msg) {
			raw := RawEvent{
				DeliveryID: uuid.New(),
				Subject:    msg.Subject(),
				EventType:  cfg.EventType,
				Data:       msg.Data(),
				Received:   time.Now(),
				AckFunc:    func() { msg.Ack() },
				NakFunc:    func() { msg.Nak() },
			}

			select {
			case ns.eventChan <- raw:
			case <-ctx.Done():
				msg.Nak()
			}
		})
		if err != nil {
			return fmt.Errorf("consume %s: %w", cfg.ConsumerName, err)
		}

		ns.consumers = append(ns.consumers, consumerContext)
		ns.log.Info().
			Str("subject", cfg.Subject).
			Str("consumer", cfg.ConsumerName).
			Msg("subscribed")
	}

	return nil
}

// EnsureStreams creates the required JetStream streams if they don't
// exist. Streams use file storage with a 72h retention window.
func EnsureStreams(ctx context.Context, js jetstream.JetStream, log zerolog.Logger) error {
	streams := []jetstream.StreamConfig{
		{
			Name:      "LEDGER_ESCROW",
			Subjects:  []string{"ledger.escrow.>"},
			Storage:   jetstream.FileStorage,
			Retention: jetstream.LimitsPolicy,
			MaxAge:    72 * time.Hour,
			Replicas:  1,
		},
		{
			Name:      "LEDGER_MARKET",
			Subjects:  []string{"ledger.market.>"},
			Storage:   jetstream.FileStorage,
			Retention: jetstream.LimitsPolicy,
			MaxAge:    72 * time.Hour,
			Replicas:  1,
		},
		{
			Name:      "LEDGER_PORTFOLIO",
			Subjects:  []string{"ledger.portfolio.>"},
			Storage:   jetstream.FileStorage,
			Retention: jetstream.LimitsPolicy,
			MaxAge:    72 * time.Hour,
			Replicas:  1,
		},
		{
			Name:      "LEDGER_TOKEN",
			Subjects:  []string{"ledger.token.>"},
			Storage:   jetstream.FileStorage,
			Retention: jetstream.LimitsPolicy,
			MaxAge:    72 * time.Hour,
			Replicas:  1,
		},
		{
			Name:      "LEDGER_ORACLE",
			Subjects:  []string{"ledger.oracle.>"},
			Storage:   jetstream.FileStorage,
			Retention: jetstream.LimitsPolicy,
			MaxAge:    72 * time.Hour,
			Replicas:  1,
		},
	}

	for _, cfg := range streams {
		if _, err := js.CreateOrUpdateStream(ctx, cfg); err != nil {
			return fmt.Errorf("create stream %s: %w", cfg.Name, err)
		}
		log.Info().Str("stream", cfg.Name).Msg("stream ensured")
	}

	return nil
}

// Stop gracefully stops all consumers.
func (ns *NATSSubscriber) Stop() {
	for _, cc := range ns.consumers {
		cc.Stop()
	}
	ns.log.Info().Msg("subscribers stopped")
}

// ConnectNATS establishes a NATS connection and returns a JetStream
// context.
func ConnectNATS(url string, log zerolog.Logger) (*nats.Conn, jetstream.JetStream, error) {
	nc, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Info().Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("jetstream: %w", err)
	}

	return nc, js, nil
}
