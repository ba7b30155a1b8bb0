package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"lendpool/handler"
	"lendpool/handler/hc"
	"lendpool/handler/rest"
	"lendpool/service/lending"
	"lendpool/service/oracle"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run lendpool api server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)

		persist, _ := cmd.Flags().GetBool("persist")

		l, err := provideLedger()
		if err != nil {
			log.WithError(err).Fatalln("provideLedger")
		}

		priceOracle, err := provideOracle()
		if err != nil {
			log.WithError(err).Fatalln("provideOracle")
		}

		checkers := map[string]hc.Checker{}
		opts := []lending.Option{}
		var stores rest.Stores
		if persist {
			database := provideDatabase()
			defer database.Close()

			stores = rest.Stores{
				Transactions: provideTransactionStore(database),
				Pools:        providePoolStore(database),
				Positions:    providePositionStore(database),
			}

			r := provideRecorder(database, stores)
			if checkpoint, err := r.Checkpoint(ctx); err == nil {
				log.Infoln("recorded transactions up to", checkpoint)
			}

			opts = append(opts, lending.WithRecorder(r))
			checkers["db"] = func(ctx context.Context) error {
				return database.Update().DB().PingContext(ctx)
			}
		}

		engine, err := provideEngine(ctx, l, priceOracle, opts...)
		if err != nil {
			log.WithError(err).Fatalln("provideEngine")
		}

		prices, _ := priceOracle.(*oracle.Static)
		svr := handler.New(provideConfig(), engine, stores, prices)

		mux := chi.NewMux()
		mux.Use(middleware.Recoverer)
		mux.Use(middleware.StripSlashes)
		mux.Use(cors.AllowAll().Handler)
		mux.Use(logger.WithRequestID)
		mux.Use(middleware.Logger)
		mux.Use(middleware.NewCompressor(5).Handler)

		{
			// hc
			mux.Mount("/hc", hc.Handle(rootCmd.Version, checkers))
		}

		{
			// restful api
			mux.Mount("/api", svr.HandleRestAPI())
		}

		port, _ := cmd.Flags().GetInt("port")
		addr := fmt.Sprintf(":%d", port)

		server := &http.Server{
			Addr:    addr,
			Handler: mux,
		}

		ctx, quit := context.WithCancel(ctx)
		done := make(chan struct{}, 1)
		signal.WithContextFunc(ctx, func() {
			quit()

			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logrus.WithError(err).Error("graceful shutdown server failed")
			}

			close(done)
		})

		logrus.Infoln("serve at", addr)
		err = server.ListenAndServe()
		if err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server aborted")
		}

		<-done
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntP("port", "p", 9000, "server port")
	serverCmd.Flags().Bool("persist", true, "record committed operations to the database")
}
