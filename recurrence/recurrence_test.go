package recurrence

import (
	"fmt"
	"testing"
	"time"

	"github.com/mfcoelho/bolso/math"
	"github.com/mfcoelho/bolso/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dec = decimal.NewFromFloat

func sequentialIDs() func() string {
	count := 0
	return func() string {
		count++
		return fmt.Sprintf("occ-%d", count)
	}
}

func monthlyTemplate() model.Transaction {
	return model.Transaction{
		ID:          "template",
		Date:        math.Date(2021, time.January, 31),
		Description: "Rent",
		Amount:      dec(1200),
		Type:        model.Expense,
		Category:    "Housing",
		AccountID:   "checking",
		Recurrence: &model.RecurrenceDetails{
			Frequency:     model.Monthly,
			RecurrenceDay: 31,
		},
	}
}

func TestAdvance(t *testing.T) {
	for _, tc := range []struct {
		description string
		details     model.RecurrenceDetails
		from        time.Time
		expected    time.Time
	}{
		{
			description: "daily",
			details:     model.RecurrenceDetails{Frequency: model.Daily},
			from:        math.Date(2021, time.March, 31),
			expected:    math.Date(2021, time.April, 1),
		},
		{
			description: "weekly",
			details:     model.RecurrenceDetails{Frequency: model.Weekly},
			from:        math.Date(2021, time.March, 29),
			expected:    math.Date(2021, time.April, 5),
		},
		{
			description: "yearly",
			details:     model.RecurrenceDetails{Frequency: model.Yearly},
			from:        math.Date(2021, time.March, 15),
			expected:    math.Date(2022, time.March, 15),
		},
		{
			description: "monthly clamps short months instead of skipping",
			details:     model.RecurrenceDetails{Frequency: model.Monthly, RecurrenceDay: 31},
			from:        math.Date(2021, time.January, 31),
			expected:    math.Date(2021, time.February, 28),
		},
		{
			description: "monthly recovers the anchor after a short month",
			details:     model.RecurrenceDetails{Frequency: model.Monthly, RecurrenceDay: 31},
			from:        math.Date(2021, time.February, 28),
			expected:    math.Date(2021, time.March, 31),
		},
		{
			description: "monthly december rolls the year",
			details:     model.RecurrenceDetails{Frequency: model.Monthly, RecurrenceDay: 5},
			from:        math.Date(2021, time.December, 5),
			expected:    math.Date(2022, time.January, 5),
		},
	} {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, advance(tc.from, tc.details))
		})
	}
}

func TestCatchup(t *testing.T) {
	now := math.Date(2021, time.April, 10)

	t.Run("materializes every missed period", func(t *testing.T) {
		result := Catchup([]model.Transaction{monthlyTemplate()}, now, DefaultPolicy, sequentialIDs())
		require.Len(t, result.NewTransactions, 2)

		first := result.NewTransactions[0]
		assert.Equal(t, math.Date(2021, time.February, 28), first.Date)
		assert.Equal(t, "Rent (Recorrente)", first.Description)
		assert.Nil(t, first.Recurrence, "occurrences are not templates")
		assert.Equal(t, math.Date(2021, time.March, 31), result.NewTransactions[1].Date)

		require.Len(t, result.TemplateUpdates, 1)
		assert.Equal(t, math.Date(2021, time.March, 31), result.TemplateUpdates[0].Recurrence.LastGenerated)
	})

	t.Run("second run adds nothing", func(t *testing.T) {
		txns := []model.Transaction{monthlyTemplate()}
		first := Catchup(txns, now, DefaultPolicy, sequentialIDs())
		require.NotEmpty(t, first.NewTransactions)

		txns = append(txns, first.NewTransactions...)
		txns[0] = first.TemplateUpdates[0]
		second := Catchup(txns, now, DefaultPolicy, sequentialIDs())
		assert.Empty(t, second.NewTransactions)
		assert.Empty(t, second.TemplateUpdates)
	})

	t.Run("duplicate detection alone is enough", func(t *testing.T) {
		// template update lost, occurrences persisted: rerun must still not duplicate
		txns := []model.Transaction{monthlyTemplate()}
		first := Catchup(txns, now, DefaultPolicy, sequentialIDs())
		txns = append(txns, first.NewTransactions...)
		second := Catchup(txns, now, DefaultPolicy, sequentialIDs())
		assert.Empty(t, second.NewTransactions)
	})

	t.Run("policy caps a stale template", func(t *testing.T) {
		template := monthlyTemplate()
		template.Date = math.Date(2015, time.January, 31)
		result := Catchup([]model.Transaction{template}, now, Policy{MaxOccurrences: 12}, sequentialIDs())
		assert.Len(t, result.NewTransactions, 12)
		require.Len(t, result.TemplateUpdates, 1)
		assert.Equal(t, math.Date(2016, time.January, 31), result.TemplateUpdates[0].Recurrence.LastGenerated)
	})

	t.Run("nothing due", func(t *testing.T) {
		template := monthlyTemplate()
		template.Recurrence.LastGenerated = math.Date(2021, time.March, 31)
		result := Catchup([]model.Transaction{template}, math.Date(2021, time.April, 5), DefaultPolicy, sequentialIDs())
		assert.Empty(t, result.NewTransactions)
		assert.Empty(t, result.TemplateUpdates)
	})

	t.Run("deleted templates are ignored", func(t *testing.T) {
		template := monthlyTemplate()
		template.Deleted = true
		result := Catchup([]model.Transaction{template}, now, DefaultPolicy, sequentialIDs())
		assert.Empty(t, result.NewTransactions)
	})

	t.Run("weekly catch-up", func(t *testing.T) {
		template := monthlyTemplate()
		template.Recurrence = &model.RecurrenceDetails{Frequency: model.Weekly}
		template.Date = math.Date(2021, time.March, 22)
		result := Catchup([]model.Transaction{template}, now, DefaultPolicy, sequentialIDs())
		require.Len(t, result.NewTransactions, 2)
		assert.Equal(t, math.Date(2021, time.March, 29), result.NewTransactions[0].Date)
		assert.Equal(t, math.Date(2021, time.April, 5), result.NewTransactions[1].Date)
	})
}
