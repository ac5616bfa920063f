package service

import (
	"context"
	"fmt"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const NotLinkedMessage = "You were not linked that way to it"

// connectionMessages maps join-table constraints to the message shown to
// the client when an insert violates them.
var connectionMessages = []struct {
	constraint models.Constraint
	message    string
}{
	{models.PreventSelfFollow, "You can't subscribe to yourself"},
	{models.UniqueSubscription, "You are already subscribed"},
	{models.UniqueFavorite, "Recipe is already in favorites"},
	{models.UniqueShoppingList, "Recipe is already in shopping list"},
}

// JoinRow is a row of a join table.
type JoinRow interface {
	TableName() string
}

// ConnectionService links and unlinks entities through join tables. It is
// the only place where constraint violations become client errors.
type ConnectionService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewConnectionService(db *gorm.DB, logger *zap.Logger) *ConnectionService {
	return &ConnectionService{db: db, logger: logger.Named("connection")}
}

// Link inserts row. Known constraint violations come back as
// *types.ConnectionError.
func (s *ConnectionService) Link(ctx context.Context, row JoinRow) error {
	relation := row.TableName()
	err := s.db.WithContext(ctx).Create(row).Error
	if err == nil {
		metrics.ConnectionOps.WithLabelValues(relation, "link", "ok").Inc()
		return nil
	}

	if v, ok := database.AsConstraintViolation(err); ok {
		for _, m := range connectionMessages {
			if v.Matches(m.constraint) {
				metrics.ConnectionOps.WithLabelValues(relation, "link", "rejected").Inc()
				s.logger.Debug("link rejected", zap.String("relation", relation), zap.String("constraint", m.constraint.Name))
				return &types.ConnectionError{Message: m.message}
			}
		}
	}

	metrics.ConnectionOps.WithLabelValues(relation, "link", "error").Inc()
	return fmt.Errorf("failed to link %s: %w", relation, err)
}

// Unlink deletes the rows of model matching conds. When nothing matched the
// entities were never linked, which is a client error.
func (s *ConnectionService) Unlink(ctx context.Context, model JoinRow, conds map[string]interface{}) error {
	relation := model.TableName()
	res := s.db.WithContext(ctx).Where(conds).Delete(model)
	if res.Error != nil {
		metrics.ConnectionOps.WithLabelValues(relation, "unlink", "error").Inc()
		return fmt.Errorf("failed to unlink %s: %w", relation, res.Error)
	}
	if res.RowsAffected == 0 {
		metrics.ConnectionOps.WithLabelValues(relation, "unlink", "rejected").Inc()
		return &types.ConnectionError{Message: NotLinkedMessage}
	}
	metrics.ConnectionOps.WithLabelValues(relation, "unlink", "ok").Inc()
	return nil
}
