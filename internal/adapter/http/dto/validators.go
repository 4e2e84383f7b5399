package dto

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	// Asset codes are short alphabetic tickers (SOL, USDC). Case is
	// normalized later; validation only bounds the shape.
	assetRe = regexp.MustCompile(`^[a-zA-Z]{2,10}$`)

	// Wallet addresses are opaque identifiers; base58 / hex / plain
	// alphanumeric with dash and underscore, bounded in length.
	walletAddrRe = regexp.MustCompile(`^[a-zA-Z0-9_\-]{3,64}$`)
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("asset", validateAsset)
		_ = v.RegisterValidation("wallet_addr", validateWalletAddr)
	}
}

func validateAsset(fl validator.FieldLevel) bool {
	return assetRe.MatchString(fl.Field().String())
}

func validateWalletAddr(fl validator.FieldLevel) bool {
	return walletAddrRe.MatchString(fl.Field().String())
}
