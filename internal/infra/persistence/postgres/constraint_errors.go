package postgres

import (
	"strings"

	"talk/internal/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// Unique index names, shared by the models' gorm tags.
const (
	indexAccountEmail         = "idx_accounts_email"
	indexAccountTalkID        = "idx_accounts_talk_id"
	indexBusinessEmail        = "idx_service_providers_business_email"
	indexRefreshTokenHash     = "idx_refresh_tokens_token_hash"
	sqliteUniqueFailedMessage = "UNIQUE constraint failed: "
)

// sqlite reports columns rather than index names.
var sqliteUniqueColumns = map[string]string{
	"accounts.email":                           indexAccountEmail,
	"accounts.talk_id":                         indexAccountTalkID,
	"service_provider_profiles.business_email": indexBusinessEmail,
	"refresh_tokens.token_hash":                indexRefreshTokenHash,
}

// uniqueViolation returns the name of the unique index err violated, "" when
// err is not a unique violation, or "unknown" when the index can't be told.
func uniqueViolation(err error) string {
	if err == nil {
		return ""
	}

	if pgErr, ok := errors.AsType[*pgconn.PgError](err); ok {
		if pgErr.Code != pgUniqueViolation {
			return ""
		}
		if pgErr.ConstraintName != "" {
			return pgErr.ConstraintName
		}

		return "unknown"
	}

	msg := err.Error()
	if idx := strings.Index(msg, sqliteUniqueFailedMessage); idx >= 0 {
		column := strings.TrimSpace(msg[idx+len(sqliteUniqueFailedMessage):])
		if name, ok := sqliteUniqueColumns[column]; ok {
			return name
		}

		return "unknown"
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "unknown"
	}

	return ""
}

func isForeignKeyConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "foreign key constraint")
}
