package hub

import (
	"fmt"
	"math/rand"

	"github.com/collabify/relay/src/types"
)

var animalEmojis = []string{
	"🦁", "🐮", "🐯", "🐰", "🐻", "🐼", "🐨", "🐸", "🐷", "🐵",
	"🦊", "🐺", "🐴", "🦄", "🐧", "🐦", "🦅", "🦆", "🐔", "🐢",
}

// NewIdentity builds the canonical identity for a connecting wallet.
// The relay trusts the supplied address as-is; display name and color
// are assigned here and stay fixed for the connection's lifetime.
func NewIdentity(wallet string) types.UserData {
	return types.UserData{
		UserID:    wallet,
		UserName:  wallet + " " + animalEmojis[rand.Intn(len(animalEmojis))],
		UserColor: randomColor(),
	}
}

func randomColor() string {
	return fmt.Sprintf("hsl(%d, 100%%, 50%%)", rand.Intn(360))
}

// ShortLabel abbreviates a wallet address for log output.
func ShortLabel(wallet string) string {
	if len(wallet) > 10 {
		return wallet[:6] + "..." + wallet[len(wallet)-4:]
	}
	return wallet
}
