package main

import (
	"flag"
	"log/slog"
	"os"
	"strings"

	"tradewind/config"
	"tradewind/core/events"
	"tradewind/native/common"
	"tradewind/native/custody"
	"tradewind/native/market"
	"tradewind/native/params"
	"tradewind/observability/logging"
	"tradewind/rpc"
	"tradewind/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("TWD_ENV"))
	logger := logging.Setup("tradewindd", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	admin, err := cfg.Admin()
	if err != nil {
		logger.Error("Invalid admin address", slog.Any("error", err))
		os.Exit(1)
	}
	vault, err := cfg.Vault()
	if err != nil {
		logger.Error("Invalid vault address", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	state := storage.NewState(db)
	if err := seedFeeConfig(state, cfg); err != nil {
		logger.Error("Failed to seed fee configuration", slog.Any("error", err))
		os.Exit(1)
	}

	recorder := events.NewRecorder()

	ledger := custody.NewLedger(vault)
	ledger.SetState(state)

	manager := params.NewManager(admin)
	manager.SetState(state)
	manager.SetEmitter(recorder)

	engine := market.NewEngine()
	engine.SetState(state)
	engine.SetCustody(ledger)
	engine.SetParams(manager)
	engine.SetPauses(manager)
	engine.SetEmitter(recorder)
	engine.SetQuota(common.Quota{
		MaxCreationsPerEpoch: cfg.Quota.MaxCreationsPerEpoch,
		EpochSeconds:         cfg.Quota.EpochSeconds,
	})

	logger.Info("Starting market node",
		slog.String("network", cfg.NetworkName),
		slog.String("rpc", cfg.RPCAddress),
		slog.String("admin", cfg.AdminAddress),
	)

	server := rpc.NewServer(engine, manager, recorder)
	if err := server.Start(cfg.RPCAddress); err != nil {
		logger.Error("RPC server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

// seedFeeConfig writes the configured genesis fee values on a fresh data
// directory. Once any fee configuration exists, the admin RPC surface owns it.
func seedFeeConfig(state *storage.State, cfg *config.Config) error {
	current, err := state.FeeConfigGet()
	if err != nil {
		return err
	}
	if current != (params.FeeConfig{}) {
		return nil
	}
	return state.FeeConfigPut(params.FeeConfig{
		ProtocolFeeBps:                 cfg.Fees.ProtocolFeeBps,
		DisputeHandlerFeeCommissionBps: cfg.Fees.DisputeHandlerFeeCommissionBps,
		MaxDisputeHandlerFeeBps:        cfg.Fees.MaxDisputeHandlerFeeBps,
	})
}
