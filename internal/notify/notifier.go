package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	auditsvc "signal_engine/internal/modules/audit/service"
)

type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

// New выбирает реализацию: есть токен — Telegram, иначе stdout.
func New(token string, chatID int64, audit *auditsvc.Store) (Notifier, error) {
	if token == "" {
		return NewStdout(), nil
	}
	return NewTelegram(token, chatID, audit)
}

// Telegram — пассивный нотифайер + обработка одной команды /last.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
	audit  *auditsvc.Store
}

func NewTelegram(token string, chatID int64, audit *auditsvc.Store) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{
		bot:    b,
		chatID: chatID,
		audit:  audit,
	}, nil
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	_, _ = t.bot.Send(tgbot.NewMessage(t.chatID, msg))
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

// /last <subscription_id> — последние решения по подписке из журнала.
func (t *Telegram) handleLast(ctx context.Context, arg string) {
	if t.audit == nil {
		t.Send("❗️ Журнал решений не подключён")
		return
	}
	if arg == "" {
		t.Send("Использование: /last <subscription_id>")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	actions, err := t.audit.Recent(ctx, arg, 10)
	if err != nil {
		t.Sendf("❗️ Ошибка чтения журнала: %v", err)
		return
	}
	if len(actions) == 0 {
		t.Sendf("📭 Решений по %s нет", arg)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Последние решения %s:\n", arg)
	for _, a := range actions {
		fmt.Fprintf(&b, "- %s %s [%s] conf=%.2f @ %.4f\n  %s\n",
			a.Symbol, a.Action.Action, a.Action.Type, a.Action.Confidence, a.Action.Magnitude, a.Action.Reason)
	}
	t.Send(b.String())
}

// Start: long-polling для команд.
func (t *Telegram) Start(ctx context.Context) error {
	if t == nil || t.bot == nil {
		return nil
	}

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	updates := t.bot.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd := <-updates:
				if upd.Message != nil && upd.Message.Chat != nil &&
					upd.Message.Chat.ID == t.chatID && upd.Message.IsCommand() {

					switch upd.Message.Command() {
					case "last":
						go t.handleLast(ctx, strings.TrimSpace(upd.Message.CommandArguments()))
					}
				}
			}
		}
	}()
	return nil
}

func (t *Telegram) Stop() {}

// Stdout — заглушка, всё пишет в лог.
type Stdout struct{}

func NewStdout() *Stdout                           { return &Stdout{} }
func (s *Stdout) Send(msg string)                  { log.Println(msg) }
func (s *Stdout) Sendf(format string, args ...any) { log.Printf(format, args...) }
