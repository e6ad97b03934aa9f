package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottoshop/internal/conversation"
	"github.com/hammamikhairi/ottoshop/internal/display"
	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/engine"
	"github.com/hammamikhairi/ottoshop/internal/logger"
	"github.com/hammamikhairi/ottoshop/internal/storage"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Shop interactively in the terminal",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	store := storage.NewMemoryStore(a.log)
	ui := display.NewUI(store)
	notifier := conversation.NewCLINotifier(a.log, ui.Printf)
	eng := engine.New(a.backend(), store, a.log,
		engine.WithNotifier(notifier),
		engine.WithExtractor(a.extractor()),
	)

	conv, err := eng.Start(ctx)
	if err != nil {
		return err
	}
	ui.Track(conv.ID)

	repl := &cliApp{
		engine:   eng,
		parser:   conversation.NewKeywordParser(a.log),
		notifier: notifier,
		log:      a.log,
		ui:       ui,
		convID:   conv.ID,
	}

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	// App logic runs beside the Bubble Tea loop.
	go func() {
		ui.WaitReady()
		repl.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal until quit.
	if err := ui.Run(); err != nil {
		a.log.Error("display: %v", err)
	}
	cancel()
	return nil
}

type cliApp struct {
	engine   *engine.Engine
	parser   domain.IntentParser
	notifier domain.Notifier
	log      *logger.Logger
	ui       *display.UI
	convID   string
}

func (a *cliApp) run(ctx context.Context) {
	a.ui.PrintChat(conversation.LineWelcome())

	in := a.ui.InputChan()
	for {
		var input string
		select {
		case <-ctx.Done():
			return
		case v, ok := <-in:
			if !ok {
				return
			}
			input = strings.TrimSpace(v)
		}
		if input == "" {
			continue
		}

		conv, err := a.engine.Get(ctx, a.convID)
		if err != nil {
			a.log.Error("loading conversation: %v", err)
			continue
		}

		intent, err := a.parser.Parse(ctx, input, conv)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}
		a.log.Debug("intent: %s (payload=%q)", intent.Type, intent.Payload)

		if !a.handleIntent(ctx, conv, intent) {
			return
		}
	}
}

// handleIntent acts on one intent. It returns false when the user quits.
func (a *cliApp) handleIntent(ctx context.Context, conv *domain.Conversation, intent *domain.Intent) bool {
	switch intent.Type {
	case domain.IntentQuit:
		a.ui.PrintChat(conversation.LineBye())
		return false
	case domain.IntentHelp:
		a.ui.PrintInstruction(conversation.LineHelp())
	case domain.IntentItems:
		a.turn(ctx, intent.Payload)
	case domain.IntentAddItems:
		a.turn(ctx, "add "+intent.Payload)
	case domain.IntentRemoveItems:
		a.turn(ctx, "remove "+intent.Payload)
	case domain.IntentSelectStore:
		a.selectStore(ctx, conv, intent.Payload)
	case domain.IntentConfirm:
		a.confirm(ctx, conv)
	case domain.IntentAddress:
		a.submitAddress(ctx, intent.Payload)
	case domain.IntentShowBasket:
		a.ui.PrintBasket(conv.Basket)
	case domain.IntentCompare:
		if len(conv.Comparisons) == 0 {
			a.ui.PrintChat(conversation.LineNoPrices())
		} else {
			a.ui.PrintComparisons(conv.Comparisons)
		}
	case domain.IntentNewOrder:
		if _, err := a.engine.NewOrder(ctx, a.convID); err != nil {
			a.ui.PrintUrgent(err.Error())
			return true
		}
		a.ui.PrintChat(conversation.LineWelcome())
	default:
		a.ui.PrintChat(conversation.LineUnknown(intent.Payload))
	}
	return true
}

// turn sends free text to the agent and shows what came back.
func (a *cliApp) turn(ctx context.Context, text string) {
	if strings.TrimSpace(text) == "" {
		a.ui.PrintChat(conversation.LineNothingToAdd())
		return
	}
	a.ui.PrintHint(conversation.LineThinkingPrices())

	res, err := a.engine.HandleTurn(ctx, a.convID, text)
	switch {
	case errors.Is(err, domain.ErrOrderComplete):
		a.ui.PrintChat(conversation.LineOrderAlreadyDone())
		return
	case err != nil:
		a.ui.PrintUrgent(err.Error())
		return
	}

	if res.Degraded {
		_ = a.notifier.NotifyUrgent(ctx, res.Message)
		return
	}
	if x := res.Extracted; x != nil && len(x.Comparisons) > 0 && x.Store == nil && x.Checkout == nil {
		a.ui.PrintComparisons(res.Conversation.Comparisons)
		a.ui.PrintChat(res.Message)
		return
	}
	a.ui.PrintMarkdown(res.Message)
}

func (a *cliApp) selectStore(ctx context.Context, conv *domain.Conversation, choice string) {
	store, err := a.engine.ResolveStore(conv, choice)
	switch {
	case errors.Is(err, domain.ErrNoStoreSelected):
		a.ui.PrintChat(conversation.LineNoPrices())
		return
	case err != nil:
		a.ui.PrintUrgent(err.Error())
		return
	}

	res, err := a.engine.SelectStore(ctx, a.convID, store)
	switch {
	case errors.Is(err, domain.ErrOrderComplete):
		a.ui.PrintChat(conversation.LineOrderAlreadyDone())
		return
	case err != nil:
		a.ui.PrintUrgent(err.Error())
		return
	}

	c := res.Conversation
	a.ui.PrintChat(conversation.LineStoreChosen(c.SelectedStore.String(), c.SelectedTotal, c.DeliveryHours))
	if res.Degraded {
		_ = a.notifier.NotifyUrgent(ctx, conversation.LineAgentDown())
	}
	a.ui.PrintMarkdown(res.Message)
}

// confirm handles "ok": it moves a chosen store on to address collection.
func (a *cliApp) confirm(ctx context.Context, conv *domain.Conversation) {
	switch {
	case conv.Stage == domain.StageConfirmed:
		a.ui.PrintChat(conversation.LineOrderAlreadyDone())
	case conv.Stage == domain.StageAwaitingAddress:
		a.ui.PrintChat(conversation.LineAskAddress())
	case conv.SelectedStore != domain.StoreUnknown:
		a.selectStore(ctx, conv, conv.SelectedStore.ID())
	case len(conv.Comparisons) == 0:
		a.ui.PrintChat(conversation.LineNoPrices())
	default:
		a.ui.PrintChat(conversation.LineChooseStoreFirst())
	}
}

func (a *cliApp) submitAddress(ctx context.Context, address string) {
	a.ui.PrintHint(conversation.LineThinkingCheckout())

	res, err := a.engine.SubmitAddress(ctx, a.convID, address)
	var addrErr *engine.AddressError
	switch {
	case errors.As(err, &addrErr):
		a.ui.PrintUrgent(addrErr.Msg)
		return
	case errors.Is(err, domain.ErrNoStoreSelected):
		a.ui.PrintChat(conversation.LineChooseStoreFirst())
		return
	case errors.Is(err, domain.ErrOrderComplete):
		a.ui.PrintChat(conversation.LineOrderAlreadyDone())
		return
	case err != nil:
		a.ui.PrintUrgent(err.Error())
		return
	}

	if res.Degraded {
		_ = a.notifier.NotifyUrgent(ctx, conversation.LineAgentDown())
	}
	if strings.TrimSpace(res.Message) != "" {
		a.ui.PrintMarkdown(res.Message)
	}
	if o := res.Conversation.Order; o != nil {
		a.ui.PrintOrder(o)
		a.ui.PrintChat(conversation.LineOrderDone(o.OrderNumber))
	}
}
