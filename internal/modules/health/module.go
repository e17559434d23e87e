package health

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/health/service"
	"signal_bot/internal/modules/otp"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"
)

type Config struct {
	Addr string // например ":5000"
}

func NewConfig(cfg *config.Config) Config {
	return Config{Addr: cfg.Service.HTTPAddr}
}

func NewRouter(state *service.State, otpHandler *otp.Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/livez", func(c *gin.Context) {
		// liveness: процесс жив
		c.String(http.StatusOK, "ok")
	})

	r.GET("/readyz", func(c *gin.Context) {
		// readiness: сессия Telegram авторизована
		if !state.Ready() {
			c.String(http.StatusServiceUnavailable, "not ready")
			return
		}
		c.String(http.StatusOK, "ready")
	})

	r.GET("/healthz", func(c *gin.Context) {
		var last int64
		if t := state.LastSignal(); !t.IsZero() {
			last = t.Unix()
		}
		c.JSON(http.StatusOK, gin.H{
			"ready":            state.Ready(),
			"channelConnected": state.ChannelConnected(),
			"uptimeSec":        int64(state.Uptime().Seconds()),
			"lastSignalUnix":   last,
			"processed":        state.Processed(),
			"failed":           state.Failed(),
		})
	})

	otpHandler.Register(r)
	return r
}

func RunHTTP(lc fx.Lifecycle, cfg Config, router *gin.Engine) {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return err
			}
			logger.Info("http listening on %s", cfg.Addr)
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("health",
		fx.Provide(
			service.NewState,
			func(s *service.State) runner.Tracker { return s },
			NewConfig,
			NewRouter,
		),
		fx.Invoke(RunHTTP),
	)
}
