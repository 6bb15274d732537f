package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-subscription-admin/internal/application"
	"telegram-subscription-admin/internal/config"
	"telegram-subscription-admin/internal/domain"
	"telegram-subscription-admin/internal/domain/model"
	"telegram-subscription-admin/internal/domain/ports/adapter"
	"telegram-subscription-admin/internal/infra/logging"
)

// Bot implements adapter.MessageTransport over the Telegram Bot API with
// concurrent long polling. Updates from non-admin chats are dropped before
// they reach the workflow engine.
type Bot struct {
	api  *tgbotapi.BotAPI
	cfg  *config.BotConfig
	flow *application.AdminFlow
	tr   adapter.Translator
	log  *zerolog.Logger

	adminIDsMap map[int64]struct{}
	httpClient  *http.Client

	// updateWorkers is how many goroutines will concurrently process updates.
	updateWorkers int
	// cancelPolling cancels polling when called
	cancelPolling context.CancelFunc
}

var _ adapter.MessageTransport = (*Bot)(nil)

// NewBot creates the Telegram transport. The workflow engine is attached
// afterwards with AttachFlow, since it needs this transport to deliver
// broadcasts; updateWorkers comes from cfg.Workers.
func NewBot(cfg *config.BotConfig, tr adapter.Translator, logger *zerolog.Logger) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if tr == nil {
		return nil, errors.New("translator is nil")
	}

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	adminMap := make(map[int64]struct{}, len(cfg.AdminIDs))
	for _, id := range cfg.AdminIDs {
		adminMap[id] = struct{}{}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}

	return &Bot{
		api:           api,
		cfg:           cfg,
		tr:            tr,
		log:           logger,
		adminIDsMap:   adminMap,
		httpClient:    &http.Client{Timeout: 2 * time.Minute},
		updateWorkers: workers,
	}, nil
}

// AttachFlow wires the workflow engine. Must be called before StartPolling.
func (b *Bot) AttachFlow(flow *application.AdminFlow) {
	b.flow = flow
}

// StartPolling begins polling Telegram for updates concurrently.
// It runs until ctx is canceled.
func (b *Bot) StartPolling(ctx context.Context) error {
	if b.flow == nil {
		return errors.New("admin flow not attached")
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	b.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < b.updateWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case update, ok := <-updateChan:
					if !ok {
						return
					}
					b.handleUpdate(ctx, update)
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Dispatcher goroutine: feed updates into updateChan
	go func() {
		defer close(updateChan)
		for {
			select {
			case update := <-updates:
				select {
				case updateChan <- update:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	<-ctx.Done()
	b.api.StopReceivingUpdates()
	wg.Wait()
	return nil
}

// StopPolling stops the polling loop gracefully.
func (b *Bot) StopPolling() {
	if b.cancelPolling != nil {
		b.cancelPolling()
	}
}

// Send delivers one instruction as a Telegram message, rendering the keyboard
// hint into reply-keyboard buttons and attaching the named document if any.
func (b *Bot) Send(ctx context.Context, in adapter.Instruction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if in.Attachment != "" {
		doc := tgbotapi.NewDocument(in.ActorID, tgbotapi.FilePath(in.Attachment))
		doc.Caption = in.Text
		if _, err := b.api.Send(doc); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrDelivery, err)
		}
		return nil
	}

	msg := tgbotapi.NewMessage(in.ActorID, in.Text)
	if markup := b.replyMarkup(in.Lang, in.Keyboard); markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDelivery, err)
	}
	return nil
}

// handleUpdate processes a single Telegram update. Every update gets a fresh
// trace id so the log lines of one conversation turn can be correlated across
// the transport, the workflow engine and the usecases.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !b.isAdmin(msg.From.ID) {
		b.log.Debug().Int64("tg_id", msg.From.ID).Msg("non-admin update dropped")
		return
	}

	ctx = logging.WithTraceID(ctx, uuid.NewString())
	ctx = logging.WithTgID(ctx, msg.From.ID)
	log := logging.With(ctx, b.log)

	ev := adapter.Event{
		ActorID: msg.From.ID,
		Profile: adapter.UserProfile{
			Username:  msg.From.UserName,
			FirstName: msg.From.FirstName,
			LastName:  msg.From.LastName,
		},
	}

	switch {
	case msg.IsCommand():
		ev.Kind = adapter.EventCommand
		ev.Text = msg.Command()
	case msg.Document != nil:
		body, err := b.openDocument(ctx, msg.Document.FileID)
		if err != nil {
			log.Error().Err(err).Str("file_id", msg.Document.FileID).Msg("document download failed")
			return
		}
		defer body.Close()
		ev.Kind = adapter.EventFile
		ev.Document = body
	default:
		ev.Kind = adapter.EventText
		ev.Text = strings.TrimSpace(msg.Text)
	}

	log.Debug().Str("kind", string(ev.Kind)).Msg("update received")

	for _, in := range b.flow.HandleEvent(ctx, ev) {
		if err := b.Send(ctx, in); err != nil {
			log.Error().Err(err).Int64("to", in.ActorID).Msg("reply delivery failed")
		}
	}
}

// openDocument fetches the file content of an uploaded document.
func (b *Bot) openDocument(ctx context.Context, fileID string) (io.ReadCloser, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("file download status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (b *Bot) isAdmin(tgID int64) bool {
	_, ok := b.adminIDsMap[tgID]
	return ok
}

// keyboardLayouts maps each layout hint to rows of action keys; the buttons
// are labeled through the translator so both locales render correctly.
var keyboardLayouts = map[adapter.Keyboard][][]model.Action{
	adapter.KeyboardMain: {
		{model.ActionMenuBackup, model.ActionMenuBroadcast},
		{model.ActionMenuPlans, model.ActionMenuClose},
	},
	adapter.KeyboardBackup: {
		{model.ActionBackupCreate, model.ActionBackupRestore},
		{model.ActionBack},
	},
	adapter.KeyboardAudience: {
		{model.ActionAudienceActive, model.ActionAudienceExpired},
		{model.ActionAudienceTest, model.ActionAudienceAll},
		{model.ActionCancel},
	},
	adapter.KeyboardPlans: {
		{model.ActionPlansList, model.ActionPlansAdd, model.ActionPlansEdit},
		{model.ActionBack},
	},
	adapter.KeyboardCancel: {
		{model.ActionCancel},
	},
}

func (b *Bot) replyMarkup(lang model.Language, kb adapter.Keyboard) interface{} {
	if kb == adapter.KeyboardNone {
		return tgbotapi.NewRemoveKeyboard(true)
	}
	layout, ok := keyboardLayouts[kb]
	if !ok {
		return nil
	}
	rows := make([][]tgbotapi.KeyboardButton, 0, len(layout))
	for _, actions := range layout {
		row := make([]tgbotapi.KeyboardButton, 0, len(actions))
		for _, a := range actions {
			row = append(row, tgbotapi.NewKeyboardButton(b.tr.T(lang, string(a))))
		}
		rows = append(rows, row)
	}
	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.ResizeKeyboard = true
	return markup
}
