package cron

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync/atomic"
	"time"

	"splitpot/internal/repositories/sqlconnect"
	"splitpot/internal/services"
	"splitpot/pkg/utils"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const defaultReminderSchedule = "0 0 * * *"

// Mailer delivers one email. utils.SendEmail satisfies it.
type Mailer func(to, subject, body string) error

var now = time.Now

func StartCronJob(db *sql.DB) (*cron.Cron, error) {
	schedule := os.Getenv("REMINDER_CRON")
	if schedule == "" {
		schedule = defaultReminderSchedule
	}

	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		sent, err := SendSettlementReminders(ctx, db, utils.SendEmail)
		if err != nil {
			utils.Logger.Errorf("Cron job failed to send settlement reminders: %v", err)
			return
		}
		utils.Logger.Infof("Sent %d settlement reminders", sent)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule settlement reminders %q: %w", schedule, err)
	}

	c.Start()
	utils.Logger.Infof("Cron jobs started (settlement reminders on %q)", schedule)
	return c, nil
}

// SendSettlementReminders settles every group that has expenses and mails each
// member with a negative balance the amount they owe. Groups whose stored
// expenses cannot be settled are logged and skipped. At most five emails are
// in flight at once. It returns the number of emails delivered.
func SendSettlementReminders(ctx context.Context, db *sql.DB, send Mailer) (int, error) {
	groups, err := sqlconnect.GroupsWithExpenses(ctx, db)
	if err != nil {
		return 0, err
	}

	var (
		g    errgroup.Group
		sent atomic.Int64
	)
	g.SetLimit(5)

	asOf := now()

	for _, group := range groups {
		records, err := sqlconnect.GroupExpenseRecords(ctx, db, group.ID)
		if err != nil {
			g.Wait()
			return int(sent.Load()), err
		}

		balances, err := services.CalculateSettlement(records)
		if err != nil {
			if errors.Is(err, services.ErrInvalidRecord) {
				utils.Logger.WithFields(logrus.Fields{
					"group_id": group.ID,
					"error":    err,
				}).Warn("skipping reminders for group with invalid expenses")
				continue
			}
			g.Wait()
			return int(sent.Load()), err
		}

		for _, payer := range debtors(balances) {
			email, err := sqlconnect.UserEmail(ctx, db, payer)
			if err != nil {
				g.Wait()
				return int(sent.Load()), err
			}
			if email == "" {
				utils.Logger.Warnf("no email for user %d in group %d", payer, group.ID)
				continue
			}

			owed := balances[payer].Neg().StringFixed(2)
			subject, body := utils.SettlementReminderEmail(email, owed, group.Name, asOf)
			groupID := group.ID

			g.Go(func() error {
				if err := send(email, subject, body); err != nil {
					utils.Logger.Errorf("failed to send reminder to %s for group %d: %v", email, groupID, err)
					return fmt.Errorf("reminder to %s: %w", email, err)
				}
				sent.Add(1)
				return nil
			})
		}
	}

	err = g.Wait()
	return int(sent.Load()), err
}

// debtors returns the payers with a negative balance in ascending id order.
func debtors(balances services.BalanceSheet) []int64 {
	var ids []int64
	for payer, balance := range balances {
		if balance.IsNegative() {
			ids = append(ids, payer)
		}
	}
	slices.Sort(ids)
	return ids
}
