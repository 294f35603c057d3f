package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/treb-deployer/internal/usecase"
)

// AccountsRenderer prints the addresses of the configured signing keys
type AccountsRenderer struct {
	out io.Writer
}

// NewAccountsRenderer creates a new accounts renderer
func NewAccountsRenderer(out io.Writer) *AccountsRenderer {
	return &AccountsRenderer{
		out: out,
	}
}

// RenderAccounts prints one checksummed address per line
func (r *AccountsRenderer) RenderAccounts(result *usecase.ListAccountsResult) error {
	for _, address := range result.Addresses {
		if _, err := fmt.Fprintln(r.out, address.Hex()); err != nil {
			return err
		}
	}
	return nil
}
