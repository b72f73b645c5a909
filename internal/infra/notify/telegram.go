package notify

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Spok95/garage-crm/internal/domain/report"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier шлёт оповещения о низких остатках в админ-чат Telegram.
// При пустом токене возвращается nil — методы на nil-получателе молчат.
type Notifier struct {
	api       *tgbotapi.BotAPI
	log       *slog.Logger
	adminChat int64
}

func New(token string, adminChat int64, log *slog.Logger) (*Notifier, error) {
	if token == "" || adminChat == 0 {
		return nil, nil
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Notifier{api: api, log: log, adminChat: adminChat}, nil
}

// LowStock оповещает о деталях с остатком ниже минимального порога
// или в минусе. Детали в норме пропускаются.
func (n *Notifier) LowStock(results []report.StockPeriodResult) {
	if n == nil {
		return
	}

	var lines []string
	for _, r := range results {
		switch {
		case r.CurrentStock < 0:
			lines = append(lines, fmt.Sprintf("— %s — закончились (остаток %d %s)", r.PartName, r.CurrentStock, r.Unit))
		case r.CurrentStock <= r.MinStock:
			lines = append(lines, fmt.Sprintf("— %s — %d %s (минимум %d)", r.PartName, r.CurrentStock, r.Unit, r.MinStock))
		}
	}
	if len(lines) == 0 {
		return
	}

	text := "⚠️ Запчасти заканчиваются:\n" + strings.Join(lines, "\n")
	if _, err := n.api.Send(tgbotapi.NewMessage(n.adminChat, text)); err != nil {
		n.log.Error("low stock notification failed", "err", err)
	}
}
