package cmd

import (
	"time"

	"lendpool/core"
	"lendpool/internal/compound"
	"lendpool/pkg/number"
	"lendpool/service/lending"
	"lendpool/service/oracle"
	"lendpool/store/ledger"
	"lendpool/store/sharetoken"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// exampleCmd run a deposit and borrow against an in-memory ledger and print the pool a year later
var exampleCmd = &cobra.Command{
	Use:     "example",
	Aliases: []string{"exam"},
	Short:   "simulate a year of interest on an in-memory pool",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)

		days, _ := cmd.Flags().GetInt("days")

		now := time.Now()
		clock := func() time.Time { return now }

		prices, err := oracle.NewStatic(map[string]decimal.Decimal{"usd": decimal.NewFromInt(1)})
		if err != nil {
			log.WithError(err).Fatalln("NewStatic")
		}

		l := ledger.New()
		if err := l.Credit("usd", "alice", uint256.NewInt(1000)); err != nil {
			log.WithError(err).Fatalln("Credit")
		}

		exampleCfg := &core.Config{
			App:    core.App{Vault: "example-vault"},
			Admins: []string{"admin"},
		}
		engine, err := lending.New(exampleCfg, l, sharetoken.NewFactory(), prices, lending.WithClock(clock))
		if err != nil {
			log.WithError(err).Fatalln("lending.New")
		}

		admin := core.WithCaller(ctx, "admin")
		model, err := compound.NewJumpRate(core.PoolOption{
			AssetID:          "usd",
			BaseRate:         decimal.NewFromFloat(0.1),
			Kink:             decimal.NewFromInt(1),
			CollateralFactor: decimal.NewFromFloat(0.8),
			LiquidationBonus: decimal.NewFromFloat(0.05),
		})
		if err != nil {
			log.WithError(err).Fatalln("NewJumpRate")
		}

		if err := engine.InitPool(admin, "usd", model); err != nil {
			log.WithError(err).Fatalln("InitPool")
		}

		if err := engine.SetPoolStatus(admin, "usd", core.PoolStatusActive); err != nil {
			log.WithError(err).Fatalln("SetPoolStatus")
		}

		alice := core.WithCaller(ctx, "alice")
		if _, err := engine.Deposit(alice, "usd", uint256.NewInt(1000)); err != nil {
			log.WithError(err).Fatalln("Deposit")
		}

		if _, err := engine.Borrow(alice, "usd", uint256.NewInt(500)); err != nil {
			log.WithError(err).Fatalln("Borrow")
		}

		now = now.Add(time.Duration(days) * 24 * time.Hour)

		pool, err := engine.GetPool(ctx, "usd")
		if err != nil {
			log.WithError(err).Fatalln("GetPool")
		}

		data, err := engine.GetUserPoolData(ctx, "alice", "usd")
		if err != nil {
			log.WithError(err).Fatalln("GetUserPoolData")
		}

		cmd.Println("days:", days)
		cmd.Println("total borrows:", pool.TotalBorrows)
		cmd.Println("total liquidity:", pool.TotalLiquidity)
		cmd.Println("utilization:", number.WadToDecimal(pool.UtilizationRate))
		cmd.Println("borrow rate:", number.WadToDecimal(pool.BorrowRate))
		cmd.Println("alice liquidity balance:", data.LiquidityBalance)
		cmd.Println("alice borrow balance:", data.BorrowBalance)
	},
}

func init() {
	rootCmd.AddCommand(exampleCmd)
	exampleCmd.Flags().Int("days", 365, "days of interest to accrue")
}
