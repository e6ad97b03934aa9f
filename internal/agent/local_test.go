package agent

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/ottoshop/internal/checkout"
	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/extract"
	"github.com/hammamikhairi/ottoshop/internal/logger"
)

func newTestLocal() *Local {
	clock := func() time.Time { return time.UnixMilli(1_700_012_345_678) }
	tools := NewTools(nil, checkout.NewProcessor(checkout.WithClock(clock)))
	return NewLocal(tools, logger.New(logger.LevelOff, nil))
}

func TestLocalFullFlow(t *testing.T) {
	ctx := context.Background()
	agent := newTestLocal()
	ex := extract.New(logger.New(logger.LevelOff, nil), extract.WithoutTextFallback())

	// Items → comparison across every store.
	resp, err := agent.Send(ctx, "I need bread, milk and eggs", "")
	require.NoError(t, err)
	require.NotEmpty(t, resp.SessionID)
	sid := resp.SessionID

	res := ex.Extract(resp, nil)
	assert.Equal(t, "direct-path", res.Source)
	require.Len(t, res.Comparisons, 4)
	assert.Equal(t, []string{"bread", "milk", "eggs"}, res.BasketItems)
	cheap, _ := res.Comparisons.Cheapest()
	assert.Equal(t, domain.Asda, cheap.Store)
	assert.Equal(t, 3.95, cheap.Total)
	assert.Contains(t, resp.Message, "**Asda:** £3.95 (delivery in 4 hours)")

	// Store → selection.
	resp, err = agent.Send(ctx, "tesco", sid)
	require.NoError(t, err)
	res = ex.Extract(resp, nil)
	require.NotNil(t, res.Store)
	assert.Equal(t, domain.Tesco, res.Store.Store)
	assert.Equal(t, 4.30, res.Store.Total)

	// "ok" → address request.
	resp, err = agent.Send(ctx, "ok", sid)
	require.NoError(t, err)
	res = ex.Extract(resp, nil)
	require.NotNil(t, res.Checkout)
	assert.Equal(t, checkout.StatusAddressRequired, res.Checkout.Status)
	assert.Contains(t, resp.Message, "delivery address")

	// Address → confirmation with an order number in the text.
	resp, err = agent.Send(ctx, "My delivery address is: 1 High Street, London", sid)
	require.NoError(t, err)
	res = ex.Extract(resp, nil)
	require.NotNil(t, res.Checkout)
	assert.Equal(t, checkout.StatusConfirmed, res.Checkout.Status)
	assert.Equal(t, "ORD-12345678", res.Checkout.OrderNumber)
	assert.Regexp(t, regexp.MustCompile(`order #ORD-12345678 has been confirmed`), resp.Message)
	assert.Contains(t, resp.Message, "1 High Street, London from Tesco")
}

func TestLocalBasketMutation(t *testing.T) {
	ctx := context.Background()
	agent := newTestLocal()
	ex := extract.New(logger.New(logger.LevelOff, nil))

	resp, err := agent.Send(ctx, "bread, milk", "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", resp.SessionID)

	resp, err = agent.Send(ctx, "add cheese and Bread", "s1")
	require.NoError(t, err)
	res := ex.Extract(resp, nil)
	assert.Equal(t, []string{"bread", "milk", "cheese"}, res.BasketItems)
	require.Len(t, res.Comparisons, 4)
	assert.Len(t, res.Comparisons[0].Items, 3)
	assert.Contains(t, resp.Message, "Added 1 item(s) to basket")

	resp, err = agent.Send(ctx, "remove milk", "s1")
	require.NoError(t, err)
	res = ex.Extract(resp, nil)
	assert.Equal(t, []string{"bread", "cheese"}, res.BasketItems)
}

func TestLocalGuards(t *testing.T) {
	ctx := context.Background()
	agent := newTestLocal()

	resp, err := agent.Send(ctx, "hello", "g")
	require.NoError(t, err)
	assert.Equal(t, helpText, resp.Message)

	resp, err = agent.Send(ctx, "ok", "g")
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "choose a store first")

	resp, err = agent.Send(ctx, "waitrose", "g")
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "basket is empty")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = agent.Send(cancelled, "bread", "g")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalSessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	agent := newTestLocal()

	_, err := agent.Send(ctx, "bread", "a")
	require.NoError(t, err)

	resp, err := agent.Send(ctx, "tesco", "b")
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "basket is empty")
}

// Every tool call the local agent reports must carry the result the tool
// itself returns for the reported arguments.
func TestLocalToolCallsMatchTools(t *testing.T) {
	agent := newTestLocal()
	resp, err := agent.Send(context.Background(), "I need green beans and bread", "trace")
	require.NoError(t, err)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	steps, ok := data["steps"].([]any)
	require.True(t, ok)
	require.Len(t, steps, 2)

	call := steps[0].(map[string]any)["toolResults"].([]any)[0].(map[string]any)
	assert.Equal(t, ToolBasket, call["toolName"])
	payload := call["payload"].(map[string]any)
	args := payload["args"].(map[string]any)
	assert.Equal(t, "add", args["action"])
	assert.Empty(t, args["currentItems"])

	var items []string
	for _, it := range args["items"].([]any) {
		items = append(items, it.(string))
	}
	assert.Equal(t, []string{"green beans", "bread"}, items)

	want, err := agent.tools.Basket(nil, "add", items)
	require.NoError(t, err)
	raw, err := json.Marshal(want)
	require.NoError(t, err)
	var wantMap map[string]any
	require.NoError(t, json.Unmarshal(raw, &wantMap))
	assert.Equal(t, wantMap, payload["result"])

	compare := steps[1].(map[string]any)["toolResults"].([]any)[0].(map[string]any)
	assert.Equal(t, ToolCompare, compare["toolName"])
}
