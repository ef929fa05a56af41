package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/dcastrolima/protocolo-municipal/internal/config"
	"github.com/dcastrolima/protocolo-municipal/internal/database"
	"github.com/dcastrolima/protocolo-municipal/internal/handler"
	"github.com/dcastrolima/protocolo-municipal/internal/queue"
	"github.com/dcastrolima/protocolo-municipal/internal/repository"
	"github.com/dcastrolima/protocolo-municipal/internal/router"
	"github.com/dcastrolima/protocolo-municipal/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis powers the response cache and the rate limiter. Both degrade to
	// no-ops when the client is nil, so a Redis outage never blocks startup.
	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	// Object storage for anexos is optional as well; without a bucket the
	// anexo endpoints answer 503.
	var store *storage.AnexoStore
	if scfg := config.LoadStorageConfig(); scfg.Enabled() {
		store, err = storage.NewAnexoStore(context.Background(), scfg)
		if err != nil {
			log.Printf("anexo storage disabled: %v", err)
			store = nil
		}
	}

	protocolos := repository.NewProtocoloRepo(db)
	historico := repository.NewHistoricoRepo(db)
	usuarios := repository.NewUsuarioRepo(db)
	tokens := repository.NewTokenRepo(db)
	anexos := repository.NewAnexoRepo(db)
	servidores := repository.NewServidorRepo(db)
	tipos := repository.NewTipoRequerimentoRepo(db)
	lotacoes := repository.NewLotacaoRepo(db)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, usuarios, tokens), cfg.JWTSecret)

	usuarioHandler := handler.NewUsuarioHandler(cfg, usuarios, tokens)
	adminHandler := handler.NewAdminHandler(tipos, lotacoes)
	router.RegisterProtocolos(e, router.ProtocoloDeps{
		Protocolos:    handler.NewProtocoloHandler(protocolos, anexos, store, rdb, cacheCfg),
		Movimentacoes: handler.NewMovimentacaoHandler(protocolos, historico, rdb, cacheCfg),
		Pesquisa:      handler.NewPesquisaHandler(protocolos),
		Dashboard:     handler.NewDashboardHandler(protocolos),
		Anexos:        handler.NewAnexoHandler(anexos, protocolos, store),
		Servidores:    handler.NewServidorHandler(servidores),
		Usuarios:      usuarioHandler,
		Admin:         adminHandler,
	}, cfg.JWTSecret, rdb, cacheCfg, rlCfg)
	router.RegisterAdmin(e, usuarioHandler, adminHandler, cfg.JWTSecret)

	// The consumer keeps its own reconnect loop; it never takes the server
	// down with it.
	go func() {
		if err := queue.StartMovimentacaoConsumer(); err != nil {
			log.Printf("movimentacao consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
