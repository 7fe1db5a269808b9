package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, Classify(nil))
	assert.Equal(t, OutcomeNotFound, Classify(fmt.Errorf("stock 9: %w", ErrNotFound)))
	assert.Equal(t, OutcomeOutOfStock, Classify(ErrOutOfStock))
	assert.Equal(t, OutcomeTransportError, Classify(errors.New("connection refused")))
	assert.Equal(t, OutcomeTransportError, Classify(fmt.Errorf("%w: disk full", ErrPersist)))
}

func TestResult_MarshalJSON(t *testing.T) {
	res := Result{Op: OpSetQuantity, ProductID: 1, Outcome: OutcomeOutOfStock, Err: ErrOutOfStock}

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "set_quantity", got["op"])
	assert.Equal(t, "out_of_stock", got["outcome"])
	assert.Equal(t, ErrOutOfStock.Error(), got["error"])
	assert.Equal(t, []any{}, got["cart"])
}

func TestStock_Covers(t *testing.T) {
	s := Stock{ID: 1, Amount: 10}
	assert.True(t, s.Covers(10))
	assert.False(t, s.Covers(11))
	assert.False(t, Stock{ID: 1}.Covers(1))
}

func TestClassify_PersistWinsOverNotFound(t *testing.T) {
	err := fmt.Errorf("%w: %w", ErrPersist, ErrNotFound)
	assert.Equal(t, OutcomeTransportError, Classify(err))
}

func TestResult_Ignored(t *testing.T) {
	assert.True(t, Result{Outcome: OutcomeSuccess}.Ignored())
	assert.False(t, Result{Outcome: OutcomeSuccess, Changed: true}.Ignored())
	assert.False(t, Result{Outcome: OutcomeNotFound}.Ignored())
}
