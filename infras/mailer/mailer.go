package mailer

//go:generate go run go.uber.org/mock/mockgen -source=./mailer.go -destination=./mocks/mailer_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ghumakad/config"
	"ghumakad/infras/otel"
	"ghumakad/shared/constant"
	"ghumakad/shared/timezone"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

const (
	otelAttrRecipient = "mail.recipient"
	otelAttrSubject   = "mail.subject"
)

// BookingEmail carries the fields rendered into confirmation and
// cancellation emails. Hotel bookings fill CheckIn/CheckOut/Rooms;
// service and experience bookings fill DateTime.
type BookingEmail struct {
	Username   string
	Title      string
	Type       string
	Location   string
	CheckIn    time.Time
	CheckOut   time.Time
	DateTime   time.Time
	Guests     int
	Rooms      int
	TotalPrice int64
	Reason     string
}

// Mailer sends the transactional emails of the platform.
type Mailer interface {
	SendOTP(ctx context.Context, to, otp string) error
	SendBookingConfirmation(ctx context.Context, to string, data BookingEmail) error
	SendBookingCancellation(ctx context.Context, to string, data BookingEmail) error
}

type mailerImpl struct {
	dialer *gomail.Dialer
	config *config.Config
	otel   otel.Otel
}

func New(config *config.Config, otel otel.Otel) Mailer {
	dialer := gomail.NewDialer(
		config.External.Mail.Host,
		config.External.Mail.Port,
		config.External.Mail.Username,
		config.External.Mail.Password,
	)

	return &mailerImpl{
		dialer: dialer,
		config: config,
		otel:   otel,
	}
}

func (m *mailerImpl) SendOTP(ctx context.Context, to, otp string) (err error) {
	subject := "Verify your email for Ghumakad - OTP inside"
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; color: #333;">
<h2>Welcome to Ghumakad</h2>
<p>Thank you for registering with us.</p>
<p><strong>Your One-Time Password (OTP) is:</strong></p>
<h1 style="letter-spacing: 2px;">%s</h1>
<p>This OTP is valid for the next %d minutes.</p>
<p>If you didn't request this, you can safely ignore this email.</p>
</div>`, otp, m.config.App.OTPExpireMinutes)

	return m.send(ctx, "SendOTP", to, subject, body)
}

func (m *mailerImpl) SendBookingConfirmation(ctx context.Context, to string, data BookingEmail) (err error) {
	subject := fmt.Sprintf("Your %s booking is confirmed - %s", data.Type, data.Title)
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; color: #333;">
<h2>Booking Confirmed</h2>
<p>Your %s booking for <strong>%s</strong> is confirmed.</p>
<ul>
%s
</ul>
<p>Happy travels,<br/>Team Ghumakad</p>
</div>`, data.Type, data.Title, bookingInfo(data))

	return m.send(ctx, "SendBookingConfirmation", to, subject, body)
}

func (m *mailerImpl) SendBookingCancellation(ctx context.Context, to string, data BookingEmail) (err error) {
	reason := data.Reason
	if reason == constant.Empty {
		reason = "not specified"
	}

	subject := fmt.Sprintf("Your %s booking was cancelled - %s", data.Type, data.Title)
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; color: #333;">
<h2>Booking Cancelled</h2>
<p>Hi %s, your %s booking for <strong>%s</strong> has been cancelled by the host.</p>
<ul>
%s
<li><strong>Reason:</strong> %s</li>
</ul>
<p>Your payment will be refunded in full.</p>
</div>`, data.Username, data.Type, data.Title, bookingInfo(data), reason)

	return m.send(ctx, "SendBookingCancellation", to, subject, body)
}

func (m *mailerImpl) send(ctx context.Context, operation, to, subject, body string) (err error) {
	_, scope := m.otel.NewScope(ctx, constant.OtelMailerScopeName, constant.OtelMailerScopeName+"."+operation)
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttributes(map[string]any{
		otelAttrRecipient: to,
		otelAttrSubject:   subject,
	})

	message := gomail.NewMessage()
	message.SetAddressHeader("From", m.config.External.Mail.From, m.config.External.Mail.FromName)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", body)

	if err = m.dialer.DialAndSend(message); err != nil {
		log.Error().Err(err).Str("recipient", to).Msg("failed to send email")

		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func bookingInfo(data BookingEmail) string {
	lines := []string{
		fmt.Sprintf("<li><strong>Location:</strong> %s</li>", data.Location),
		fmt.Sprintf("<li><strong>Guests:</strong> %d</li>", data.Guests),
		fmt.Sprintf("<li><strong>Total Paid:</strong> %d</li>", data.TotalPrice),
	}

	if data.Type == constant.BookingTypeHotel {
		lines = append(lines,
			fmt.Sprintf("<li><strong>Check-In:</strong> %s</li>", timezone.Format(data.CheckIn, constant.DateOnlyFormat)),
			fmt.Sprintf("<li><strong>Check-Out:</strong> %s</li>", timezone.Format(data.CheckOut, constant.DateOnlyFormat)),
			fmt.Sprintf("<li><strong>Rooms:</strong> %d</li>", data.Rooms),
		)
	} else {
		lines = append(lines,
			fmt.Sprintf("<li><strong>Date &amp; Time:</strong> %s</li>", timezone.Format(data.DateTime, constant.DateFormat)),
		)
	}

	return strings.Join(lines, "\n")
}
