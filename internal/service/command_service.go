package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"trading-gateway/internal/core/domain"
	"trading-gateway/internal/core/ports"
	"trading-gateway/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Interpretation patterns, tried in order. First match wins, so the
// three-argument swap form is checked before the two-argument trades,
// and trades before the read-only intents.
var (
	swapPattern    = regexp.MustCompile(`(?i)^\s*swap\s+(\d+(?:\.\d+)?)\s+([a-z]+)\s+(?:to|for|into)\s+([a-z]+)\s*[.!?]*\s*$`)
	buyPattern     = regexp.MustCompile(`(?i)^\s*buy\s+(\d+(?:\.\d+)?)\s+([a-z]+)\s*[.!?]*\s*$`)
	sellPattern    = regexp.MustCompile(`(?i)^\s*sell\s+(\d+(?:\.\d+)?)\s+([a-z]+)\s*[.!?]*\s*$`)
	pricePattern   = regexp.MustCompile(`(?i)^\s*(?:what(?:'s|\s+is)\s+the\s+)?price\s+(?:of\s+)?([a-z]+)\s*[.!?]*\s*$`)
	tickerPattern  = regexp.MustCompile(`(?i)^\s*([a-z]+)\s+price\s*[.!?]*\s*$`)
	balancePattern = regexp.MustCompile(`(?i)^\s*(?:show\s+(?:me\s+)?|what(?:'s|\s+is)\s+)?(?:my\s+)?balances?\s*[.!?]*\s*$`)
	historyPattern = regexp.MustCompile(`(?i)^\s*(?:show\s+(?:me\s+)?)?(?:my\s+)?(?:history|transactions?|recent\s+activity)\s*[.!?]*\s*$`)
	helpPattern    = regexp.MustCompile(`(?i)^\s*(?:help|what\s+can\s+you\s+do)\s*[.!?]*\s*$`)
)

const historyDisplayLimit = 5

// CommandServiceImpl implements ports.CommandService: a regex-based
// interpreter over a closed set of intents, plus a dispatcher that maps
// each intent onto the trading services. Dispatch never returns an
// error; failures become unsuccessful results.
type CommandServiceImpl struct {
	quotes     ports.QuoteService
	trades     ports.TradeService
	rates      ports.RateService
	quoteAsset string
	log        zerolog.Logger
}

// NewCommandService creates a CommandServiceImpl.
func NewCommandService(
	quotes ports.QuoteService,
	trades ports.TradeService,
	rates ports.RateService,
	quoteAsset string,
	log zerolog.Logger,
) *CommandServiceImpl {
	return &CommandServiceImpl{
		quotes:     quotes,
		trades:     trades,
		rates:      rates,
		quoteAsset: domain.NormalizeAssetCode(quoteAsset),
		log:        log,
	}
}

// Interpret parses free-form text into a Command. It never fails; text
// matching no pattern yields CommandUnknown.
func (s *CommandServiceImpl) Interpret(rawText string) domain.Command {
	cmd := domain.Command{Kind: domain.CommandUnknown, RawInput: rawText}

	if m := swapPattern.FindStringSubmatch(rawText); m != nil {
		amount, err := decimal.NewFromString(m[1])
		if err != nil {
			return cmd
		}
		cmd.Kind = domain.CommandSwap
		cmd.Amount = amount
		cmd.Asset = domain.NormalizeAssetCode(m[2])
		cmd.ToAsset = domain.NormalizeAssetCode(m[3])
		return cmd
	}
	if m := buyPattern.FindStringSubmatch(rawText); m != nil {
		amount, err := decimal.NewFromString(m[1])
		if err != nil {
			return cmd
		}
		cmd.Kind = domain.CommandBuy
		cmd.Amount = amount
		cmd.Asset = domain.NormalizeAssetCode(m[2])
		return cmd
	}
	if m := sellPattern.FindStringSubmatch(rawText); m != nil {
		amount, err := decimal.NewFromString(m[1])
		if err != nil {
			return cmd
		}
		cmd.Kind = domain.CommandSell
		cmd.Amount = amount
		cmd.Asset = domain.NormalizeAssetCode(m[2])
		return cmd
	}
	if m := pricePattern.FindStringSubmatch(rawText); m != nil {
		cmd.Kind = domain.CommandPrice
		cmd.Asset = domain.NormalizeAssetCode(m[1])
		return cmd
	}
	if m := tickerPattern.FindStringSubmatch(rawText); m != nil {
		cmd.Kind = domain.CommandPrice
		cmd.Asset = domain.NormalizeAssetCode(m[1])
		return cmd
	}
	if balancePattern.MatchString(rawText) {
		cmd.Kind = domain.CommandBalance
		return cmd
	}
	if historyPattern.MatchString(rawText) {
		cmd.Kind = domain.CommandHistory
		return cmd
	}
	if helpPattern.MatchString(rawText) {
		cmd.Kind = domain.CommandHelp
		return cmd
	}
	return cmd
}

// Dispatch executes a parsed command against the trading services.
func (s *CommandServiceImpl) Dispatch(ctx context.Context, walletAddress string, cmd domain.Command) domain.CommandResult {
	switch cmd.Kind {
	case domain.CommandBuy:
		txn, err := s.trades.ExecuteBuy(ctx, walletAddress, cmd.Asset, cmd.Amount)
		if err != nil {
			return s.failure(err)
		}
		return domain.CommandResult{
			Success: true,
			Message: fmt.Sprintf("Bought %s %s for %s %s", txn.ToAmount, txn.ToAsset, txn.FromAmount, txn.FromAsset),
			Data:    txn,
		}

	case domain.CommandSell:
		txn, err := s.trades.ExecuteSell(ctx, walletAddress, cmd.Asset, cmd.Amount)
		if err != nil {
			return s.failure(err)
		}
		return domain.CommandResult{
			Success: true,
			Message: fmt.Sprintf("Sold %s %s for %s %s", txn.FromAmount, txn.FromAsset, txn.ToAmount, txn.ToAsset),
			Data:    txn,
		}

	case domain.CommandSwap:
		quote, err := s.quotes.GetQuote(ctx, ports.QuoteRequest{
			FromAsset: cmd.Asset,
			ToAsset:   cmd.ToAsset,
			Amount:    cmd.Amount,
		})
		if err != nil {
			return s.failure(err)
		}
		txn, err := s.trades.ExecuteSwap(ctx, walletAddress, quote)
		if err != nil {
			return s.failure(err)
		}
		return domain.CommandResult{
			Success: true,
			Message: fmt.Sprintf("Swapped %s %s for %s %s", txn.FromAmount, txn.FromAsset, txn.ToAmount, txn.ToAsset),
			Data:    txn,
		}

	case domain.CommandPrice:
		rate, err := s.rates.Rate(ctx, cmd.Asset, s.quoteAsset)
		if err != nil {
			return s.failure(err)
		}
		return domain.CommandResult{
			Success: true,
			Message: fmt.Sprintf("1 %s = %s %s", cmd.Asset, rate, s.quoteAsset),
			Data:    map[string]string{"asset": cmd.Asset, "price": rate.String(), "quote_asset": s.quoteAsset},
		}

	case domain.CommandBalance:
		balances, err := s.trades.Balances(ctx, walletAddress)
		if err != nil {
			return s.failure(err)
		}
		return domain.CommandResult{
			Success: true,
			Message: formatBalances(balances),
			Data:    balances,
		}

	case domain.CommandHistory:
		history, err := s.trades.History(ctx, walletAddress)
		if err != nil {
			return s.failure(err)
		}
		if len(history) > historyDisplayLimit {
			history = history[:historyDisplayLimit]
		}
		return domain.CommandResult{
			Success: true,
			Message: fmt.Sprintf("Showing your %d most recent transactions", len(history)),
			Data:    history,
		}

	case domain.CommandHelp:
		return domain.CommandResult{
			Success: true,
			Message: "Try: \"buy 1 SOL\", \"sell 0.5 SOL\", \"swap 10 USDC to SOL\", \"price of SOL\", \"balance\", or \"history\"",
		}

	default:
		return domain.CommandResult{
			Success: false,
			Message: "Sorry, I didn't understand that. Say \"help\" to see what I can do.",
		}
	}
}

func (s *CommandServiceImpl) failure(err error) domain.CommandResult {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return domain.CommandResult{Success: false, Message: appErr.Message}
	}
	s.log.Error().Err(err).Msg("command dispatch failed")
	return domain.CommandResult{Success: false, Message: "Something went wrong, please try again"}
}

func formatBalances(balances map[string]decimal.Decimal) string {
	if len(balances) == 0 {
		return "Your wallet is empty"
	}
	codes := make([]string, 0, len(balances))
	for code := range balances {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		parts = append(parts, fmt.Sprintf("%s %s", balances[code], code))
	}
	return "Your balances: " + strings.Join(parts, ", ")
}
