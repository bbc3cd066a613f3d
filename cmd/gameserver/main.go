// Package main provides the game server binary that runs every level under a
// periodic tick and serves the navigation queries over gRPC.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/cory-johannsen/giftrun/internal/config"
	"github.com/cory-johannsen/giftrun/internal/game/level"
	"github.com/cory-johannsen/giftrun/internal/game/nav"
	"github.com/cory-johannsen/giftrun/internal/game/world"
	"github.com/cory-johannsen/giftrun/internal/gameserver"
	"github.com/cory-johannsen/giftrun/internal/observability"
	"github.com/cory-johannsen/giftrun/internal/scripting"
	"github.com/cory-johannsen/giftrun/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	levelsDir := flag.String("levels", "", "path to level YAML files directory; overrides game.levels_dir")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *levelsDir != "" {
		cfg.Game.LevelsDir = *levelsDir
	}

	logger, err := observability.NewLogger(cfg.Logging, zap.String("binary", "gameserver"))
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting game server",
		zap.String("grpc_addr", cfg.GameServer.Addr()),
		zap.String("strategy", cfg.Game.Strategy),
	)

	levelStart := time.Now()
	levels, err := level.LoadLevelsFromDir(cfg.Game.LevelsDir)
	if err != nil {
		logger.Fatal("loading levels", zap.Error(err))
	}
	logger.Info("levels loaded",
		zap.Int("count", len(levels)),
		zap.Duration("elapsed", time.Since(levelStart)),
	)

	costs := nav.DefaultCosts()
	costs.Fall = cfg.Game.FallCost
	costs.Brick = cfg.Game.BrickCost
	compiler, err := nav.NewCompiler(costs, nav.Strategy(cfg.Game.Strategy))
	if err != nil {
		logger.Fatal("creating hint compiler", zap.Error(err))
	}

	scriptMgr := scripting.NewManager(observability.Component(logger, "scripting"))
	defer scriptMgr.Close()
	if cfg.Scripting.Dir != "" {
		if err := scriptMgr.LoadGlobal(cfg.Scripting.Dir, cfg.Scripting.InstructionLimit); err != nil {
			logger.Fatal("loading global scripts", zap.Error(err))
		}
	}

	registry := gameserver.NewRegistry()
	gameLogger := observability.Component(logger, "game")
	for _, lvl := range levels {
		if lvl.ScriptDir != "" {
			if err := scriptMgr.LoadLevel(lvl.ID, lvl.ScriptDir, cfg.Scripting.InstructionLimit); err != nil {
				logger.Fatal("loading level scripts", zap.String("level_id", lvl.ID), zap.Error(err))
			}
		}
		w, err := world.New(lvl, compiler, gameLogger, world.WithRestoreDelay(cfg.Game.RestoreDelay))
		if err != nil {
			logger.Fatal("creating world", zap.String("level_id", lvl.ID), zap.Error(err))
		}
		if err := registry.Register(gameserver.NewGame(w, scriptMgr, gameLogger)); err != nil {
			logger.Fatal("registering game", zap.Error(err))
		}
	}
	gameserver.WireScripting(scriptMgr, registry)

	ticks := gameserver.NewTickManager(cfg.Game.TickInterval)
	for _, id := range registry.IDs() {
		g, err := registry.Get(id)
		if err != nil {
			logger.Fatal("registry lookup", zap.Error(err))
		}
		ticks.RegisterTick(id, func(now time.Time) { g.Tick(now) })
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(gameserver.LoggingInterceptor(observability.Component(logger, "grpc"))),
	)
	gameserver.RegisterNavigationServer(grpcServer, gameserver.NewNavigationService(registry))
	reflection.Register(grpcServer)

	lifecycle := server.NewLifecycle(logger)

	lifecycle.Add("ticks", server.ContextService(ctx, ticks.Run))
	lifecycle.Add("grpc", &server.FuncService{
		StartFn: func() error {
			lis, err := net.Listen("tcp", cfg.GameServer.Addr())
			if err != nil {
				return fmt.Errorf("listening on %s: %w", cfg.GameServer.Addr(), err)
			}
			logger.Info("gRPC server listening",
				zap.String("addr", lis.Addr().String()),
			)
			return grpcServer.Serve(lis)
		},
		StopFn: func() {
			grpcServer.GracefulStop()
		},
	})

	logger.Info("game server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.Strings("levels", registry.IDs()),
		zap.Duration("tick_interval", ticks.Interval()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
