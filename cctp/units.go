package cctp

import (
	"fmt"
	"math/big"
	"strings"

	"gobeampay/config"
)

var baseUnitScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(config.USDC_DECIMALS), nil)

// ToBaseUnits converts a decimal USDC amount to 6-decimal base units,
// truncating toward zero. Rounding up is never allowed here: overpaying
// the bridge fee is preferred to underpaying.
func ToBaseUnits(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, fmt.Errorf("empty amount")
	}

	r, ok := new(big.Rat).SetString(amount)
	if !ok {
		return 0, fmt.Errorf("amount %q is not numeric", amount)
	}

	r.Mul(r, new(big.Rat).SetInt(baseUnitScale))
	units := new(big.Int).Quo(r.Num(), r.Denom())
	if !units.IsInt64() {
		return 0, fmt.Errorf("amount %q out of range", amount)
	}
	return units.Int64(), nil
}

// FromBaseUnits renders base units back as a decimal string with
// trailing zeros trimmed, e.g. 1500000 -> "1.5".
func FromBaseUnits(units int64) string {
	neg := units < 0
	if neg {
		units = -units
	}

	whole := units / 1000000
	frac := units % 1000000

	s := fmt.Sprintf("%d", whole)
	if frac > 0 {
		fracStr := strings.TrimRight(fmt.Sprintf("%06d", frac), "0")
		s = s + "." + fracStr
	}
	if neg {
		s = "-" + s
	}
	return s
}
