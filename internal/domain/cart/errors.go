package cart

import (
	"errors"
	"fmt"
)

// Kind classifies the outcome of a rejected cart operation. Each kind maps to one
// user-facing message.
type Kind int

const (
	KindUnknown Kind = iota
	KindOutOfStock
	KindAddFailed
	KindRemoveFailed
	KindUpdateFailed
)

var (
	ErrOutOfStock          = errors.New("requested quantity out of stock")
	ErrAddProduct          = errors.New("error adding product")
	ErrRemoveProduct       = errors.New("error removing product")
	ErrUpdateProductAmount = errors.New("error changing product quantity")
)

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrProductNotInCart  = errors.New("product not in cart")
)

func (k Kind) String() string {
	switch k {
	case KindOutOfStock:
		return "out_of_stock"
	case KindAddFailed:
		return "add_failed"
	case KindRemoveFailed:
		return "remove_failed"
	case KindUpdateFailed:
		return "update_failed"
	default:
		return "unknown"
	}
}

// Message returns the text shown to the shopper
func (k Kind) Message() string {
	switch k {
	case KindOutOfStock:
		return "Quantidade solicitada fora de estoque"
	case KindAddFailed:
		return "Erro na adição do produto"
	case KindRemoveFailed:
		return "Erro na remoção do produto"
	case KindUpdateFailed:
		return "Erro na alteração de quantidade do produto"
	default:
		return ""
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindOutOfStock:
		return ErrOutOfStock
	case KindAddFailed:
		return ErrAddProduct
	case KindRemoveFailed:
		return ErrRemoveProduct
	case KindUpdateFailed:
		return ErrUpdateProductAmount
	default:
		return nil
	}
}

// Error is returned by every rejected Store operation. It matches the sentinel of
// its kind with errors.Is and unwraps to the underlying cause.
type Error struct {
	Op        string
	ProductID int
	Kind      Kind
	Err       error
}

func newError(op string, productID int, kind Kind, cause error) *Error {
	return &Error{Op: op, ProductID: productID, Kind: kind, Err: cause}
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("cart: %s product %d: %v", e.Op, e.ProductID, e.Kind.sentinel())
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// Message returns the user-facing message for the error kind
func (e *Error) Message() string {
	return e.Kind.Message()
}

// KindOf extracts the Kind of err, or KindUnknown when err is not a cart error
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

// MessageOf returns the user-facing message for err, empty when err is nil
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	return KindOf(err).Message()
}
