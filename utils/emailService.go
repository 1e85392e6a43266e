package utils

import (
	"fmt"
	"learnhub/config"
	"net/smtp"
	"strings"
)

// SendEmail delivers an HTML email through the configured SMTP account.
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: LearnHub <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #0f172a; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1f2937; line-height: 1.6; }
			.content h2 { color: #0f172a; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.key-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #d97706; margin: 20px 0; font-size: 20px; letter-spacing: 2px; text-align: center; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LEARNHUB</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 LearnHub. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendAccessKeyEmail delivers the course access key after enrollment.
// Fire-and-forget: a delivery failure never rolls back the enrollment.
func SendAccessKeyEmail(email, name, courseTitle, accessKey string) {
	subject := "Your Access Key for " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Thank you for enrolling in <strong>%s</strong>.</p>
		<p>Your course access key is:</p>
		<div class="key-box"><strong>%s</strong></div>
		<p>You can now access the course using this key. Happy learning!</p>
	`, name, courseTitle, accessKey)

	go SendEmail([]string{email}, subject, getEmailTemplate("Enrollment Successful", body))
}

// SendCertificateEmail notifies a student that their certificate is ready.
func SendCertificateEmail(email, name, courseTitle, certificateNumber string) {
	subject := "Course Completion Certificate - " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on passing the assessment for <strong>%s</strong>!</p>
		<p>Your certificate number is:</p>
		<div class="key-box"><strong>%s</strong></div>
		<p>You can use this number for verification purposes.</p>
	`, name, courseTitle, certificateNumber)

	go SendEmail([]string{email}, subject, getEmailTemplate("Certificate Issued", body))
}

// SendCommissionPaidEmail notifies a beneficiary that commissions were paid out.
func SendCommissionPaidEmail(email, name, formattedTotal string, count int) {
	subject := "Commission Payout Processed"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>A payout covering <strong>%d</strong> commission entr%s has been processed.</p>
		<p>Total amount: <strong>Rp %s</strong></p>
		<p>The funds will arrive at your registered bank account shortly.</p>
	`, name, count, pluralYIes(count), formattedTotal)

	go SendEmail([]string{email}, subject, getEmailTemplate("Commission Paid", body))
}

func pluralYIes(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
