package utils

import (
	"fmt"
	"html"
	"time"
)

// SettlementReminderEmail returns the subject and HTML body telling a member
// how much they owe their group after an equal split.
func SettlementReminderEmail(email string, amount string, groupName string, asOf time.Time) (string, string) {
	subject := fmt.Sprintf("Reminder: you owe %s in '%s'", amount, groupName)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<title>Settlement Reminder</title>
	<style>
		body { font-family: 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f6f8f7; color: #333; }
		.container { max-width: 480px; margin: 25px auto; background: #ffffff; border-radius: 12px; border-top: 5px solid #d9534f; }
		.content { padding: 20px 18px; font-size: 14px; line-height: 1.6; }
		.amount-box { background: #fff6f6; border: 1px solid #f1c1c1; border-radius: 8px; padding: 12px 14px; margin: 16px 0; text-align: center; }
		.footer { background: #f6f6f6; text-align: center; padding: 14px; font-size: 12px; color: #777; }
	</style>
	</head>
	<body>
		<div class="container">
			<div class="content">
				<p>Hi %s,</p>
				<p>After splitting the shared expenses of <b>%s</b> evenly, your balance is behind your share.</p>
				<div class="amount-box">
					<h3>%s owed</h3>
					<p>As of %s</p>
				</div>
				<p>Please settle up with the members who are owed.</p>
			</div>
			<div class="footer">&copy; %d Splitpot</div>
		</div>
	</body>
	</html>
	`, html.EscapeString(email), html.EscapeString(groupName), amount, asOf.Format("Jan 2, 2006"), asOf.Year())

	return subject, body
}
