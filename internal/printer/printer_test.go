package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/storefront/internal/core/notify"
)

func TestPrinter_Plain(t *testing.T) {
	var buf bytes.Buffer
	p := ForWriter(&buf)
	assert.False(t, p.Styled(), "a buffer is not a terminal")

	p.Successf("saved %d items", 3)
	p.Errorf("boom")
	p.Toast(notify.Info("Removed from cart"))
	p.Toast(nil)

	assert.Equal(t, "success: saved 3 items\nerror: boom\nRemoved from cart\n", buf.String())
	assert.Equal(t, "$1.00", p.Price("$1.00"))
}

func TestPrinter_Styled(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, true)

	p.Toast(notify.Success("Added to cart!"))
	assert.Contains(t, buf.String(), "Added to cart!")
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, false)

	ctx := NewContext(context.Background(), p)
	assert.Same(t, p, Ctx(ctx))
	assert.NotNil(t, Ctx(context.Background()))
}
