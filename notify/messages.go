package notify

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hupe1980/shopcart/core"
)

// Message keys. English text doubles as the key.
const (
	AddFailedKey      = "Error adding product"
	RemoveFailedKey   = "Error removing product"
	QuantityFailedKey = "Error changing product quantity"
	OutOfStockKey     = "Requested quantity out of stock"
)

// DefaultLocale is the storefront's native language.
var DefaultLocale = language.MustParse("pt-BR")

func init() {
	en := language.English
	message.SetString(en, AddFailedKey, AddFailedKey)
	message.SetString(en, RemoveFailedKey, RemoveFailedKey)
	message.SetString(en, QuantityFailedKey, QuantityFailedKey)
	message.SetString(en, OutOfStockKey, OutOfStockKey)

	ptBR := language.MustParse("pt-BR")
	message.SetString(ptBR, AddFailedKey, "Erro na adição do produto")
	message.SetString(ptBR, RemoveFailedKey, "Erro na remoção do produto")
	message.SetString(ptBR, QuantityFailedKey, "Erro na alteração de quantidade do produto")
	message.SetString(ptBR, OutOfStockKey, "Quantidade solicitada fora de estoque")
}

// MessageKey returns the message key shown for a failed result, or "" for a
// successful one. Out-of-stock has its own message regardless of operation.
func MessageKey(res core.Result) string {
	switch {
	case res.OK():
		return ""
	case res.Outcome == core.OutcomeOutOfStock:
		return OutOfStockKey
	}
	switch res.Op {
	case core.OpAdd:
		return AddFailedKey
	case core.OpRemove:
		return RemoveFailedKey
	default:
		return QuantityFailedKey
	}
}
