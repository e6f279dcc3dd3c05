package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eduardojeem/Mipos-sub011/internal/cart"
	"github.com/eduardojeem/Mipos-sub011/internal/catalog"
	"github.com/eduardojeem/Mipos-sub011/internal/checkout"
	"github.com/eduardojeem/Mipos-sub011/internal/draft"
	"github.com/eduardojeem/Mipos-sub011/internal/realtime"
	"github.com/eduardojeem/Mipos-sub011/internal/session"
	"github.com/eduardojeem/Mipos-sub011/internal/tui"
)

type Config struct {
	RegisterID   string
	APIBaseURL   string
	KafkaBrokers []string
	MongoURI     string // Empty means drafts go to a local file.
	TaxRate      string
	StateDir     string
}

func loadConfig() *Config {
	stateDir := getEnv("POS_STATE_DIR", "")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		stateDir = filepath.Join(home, ".pos")
	}
	return &Config{
		RegisterID:   getEnv("POS_REGISTER_ID", "reg-1"),
		APIBaseURL:   getEnv("POS_API_URL", "http://localhost:8080"),
		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		MongoURI:     getEnv("POS_MONGO_URI", ""),
		TaxRate:      getEnv("POS_TAX_RATE", "0.13"),
		StateDir:     stateDir,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// draftStore picks mongo when configured, otherwise a local file slot.
func draftStore(cfg *Config) (draft.Store, func(), error) {
	if cfg.MongoURI == "" {
		path := filepath.Join(cfg.StateDir, "draft.json")
		return draft.NewFileStore(path), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, err
	}
	collection := client.Database("pos").Collection("drafts")
	cleanup := func() {
		_ = client.Disconnect(context.Background())
	}
	return draft.NewMongoStore(collection, cfg.RegisterID), cleanup, nil
}

func main() {
	cfg := loadConfig()

	rate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		log.Fatalf("invalid POS_TAX_RATE: %v", err)
	}

	store, cleanup, err := draftStore(cfg)
	if err != nil {
		log.Fatalf("failed to open draft storage: %v", err)
	}
	defer cleanup()

	client := catalog.NewClient(cfg.APIBaseURL)
	data := tui.NewDataRef()
	cartStore := cart.NewStore()
	drafts := draft.NewManager(store, data)
	submitter := checkout.NewHTTPSubmitter(cfg.APIBaseURL)
	sequencer := checkout.NewSequencer(cfg.RegisterID, cartStore, checkout.NewIVACalculator(rate), submitter)
	flags := session.NewFileFlagStore(filepath.Join(cfg.StateDir, "flags.json"))

	model, err := tui.NewModel(tui.Deps{
		Keys:      tui.DefaultKeyMap,
		Loader:    client,
		Data:      data,
		Cart:      cartStore,
		Drafts:    drafts,
		Sequencer: sequencer,
		Flags:     flags,
	})
	if err != nil {
		log.Fatalf("failed to build register screen: %v", err)
	}

	program := tea.NewProgram(model, tea.WithAltScreen())

	// Every cart mutation stamps session activity through the update
	// loop, including mutations made off it like the post-sale clear.
	cartStore.OnActivity(func() {
		program.Send(tui.ActivityMsg{})
	})

	// Accepted sales go to a local journal so receipts survive a crash.
	journal := checkout.NewReceiptJournal(filepath.Join(cfg.StateDir, "receipts.jsonl"))
	sequencer.OnReceipt(journal.Append)

	// The realtime feed drives the bridge; debounced refreshes land in
	// the UI loop as messages.
	bridge := realtime.NewBridge(func() {
		program.Send(tui.RefreshMsg{})
	})
	defer bridge.Close()

	feed := realtime.NewKafkaFeed(cfg.KafkaBrokers, "pos-"+cfg.RegisterID)
	defer feed.Close()

	feedCtx, feedCancel := context.WithCancel(context.Background())
	defer feedCancel()
	go feed.Run(feedCtx, bridge)

	if _, err := program.Run(); err != nil {
		log.Fatalf("register screen error: %v", err)
	}
}
