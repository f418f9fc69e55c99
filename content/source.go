// content/source.go
package content

import (
	"context"
	"fmt"

	"github.com/cardclash/gameserver/models"
)

// Source 内容目录接口。The read-only catalog the game draws random cards
// from. Implementations may return fewer than n cards; padding an
// undersized result up to demand is the dealer's job, not the catalog's.
type Source interface {
	RandomJudgeCards(ctx context.Context, n int) ([]models.CardContent, error)
	RandomAnswerCards(ctx context.Context, n int) ([]models.CardContent, error)
	Close() error
}

// 错误定义
var (
	ErrNoContent = fmt.Errorf("content catalog is empty")
)
