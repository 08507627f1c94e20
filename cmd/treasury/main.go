package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"fundingme/internal/adapter/repo"
)

// treasury is an operator tool for funding and inspecting value accounts
// directly against the database.
func main() {
	var (
		accountFlag string
		amountFlag  uint64
		showFlag    bool
	)

	flag.StringVar(&accountFlag, "account", "", "account id to operate on")
	flag.Uint64Var(&amountFlag, "amount", 0, "amount to deposit")
	flag.BoolVar(&showFlag, "show", false, "print the account balance instead of depositing")
	flag.Parse()

	account := strings.TrimSpace(accountFlag)
	if account == "" {
		exitWithError(errors.New("-account is required"))
	}
	if !showFlag && amountFlag == 0 {
		exitWithError(errors.New("-amount must be positive"))
	}

	_ = godotenv.Load()
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("connect database: %w", err))
	}
	defer pool.Close()

	if err := repo.EnsureSchema(ctx, pool); err != nil {
		exitWithError(err)
	}

	accounts := repo.NewAccountStore(pool)
	if showFlag {
		balance, err := accounts.Balance(ctx, account)
		if err != nil {
			exitWithError(err)
		}
		fmt.Printf("%s: %d\n", account, balance)
		return
	}

	balance, err := accounts.Deposit(ctx, account, amountFlag)
	if err != nil {
		exitWithError(err)
	}
	fmt.Printf("%s: %d (deposited %d)\n", account, balance, amountFlag)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
