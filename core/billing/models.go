package billing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo/core"
)

// Ordering lists statements by due date, earliest first.
var Ordering = []core.DBOrdering{{Field: "due_date", Ascending: true}, {Field: "id", Ascending: true}}

type Statement struct {
	ID          int64           `db:"id"`
	AccountName string          `db:"account_name"`
	Amount      decimal.Decimal `db:"amount"`
	Details     null.String     `db:"details"`
	DueDate     time.Time       `db:"due_date"`
}

func (Statement) TableName() string { return "billing_statement" }
func (s Statement) PrimaryKey() int64 { return s.ID }
func (s *Statement) SetPrimaryKey(id int64) { s.ID = id }

type DTO struct {
	ID          int64           `json:"id"`
	AccountName string          `json:"account_name" validate:"required,max=200"`
	Amount      decimal.Decimal `json:"amount"`
	Details     null.String     `json:"details"`
	DueDate     time.Time       `json:"due_date" validate:"required"`
}

func ToDTO(s *Statement) DTO {
	return DTO{
		ID:          s.ID,
		AccountName: s.AccountName,
		Amount:      s.Amount,
		Details:     s.Details,
		DueDate:     s.DueDate.UTC(),
	}
}

func New(dto DTO, _ time.Time) *Statement {
	s := new(Statement)
	Apply(s, dto)
	return s
}

func Apply(s *Statement, dto DTO) {
	s.AccountName = core.CleanString(dto.AccountName)
	s.Amount = dto.Amount
	s.Details = dto.Details
	s.DueDate = dto.DueDate.UTC()
}
