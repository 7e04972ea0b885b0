package mailer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/hvac-backend/internal/model"
)

func TestRenderEscapesUserInput(t *testing.T) {
	tpl, err := LoadTemplates()
	require.NoError(t, err)

	out, err := tpl.Render(TplContactRelay, ContactData{
		Name:    "<script>alert(1)</script>",
		Email:   "a@b.c",
		Message: "line one\nline two",
	})
	require.NoError(t, err)

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "line one<br>line two")
	assert.Contains(t, out, "General Inquiry")
}

func TestRenderMaintenanceReminder(t *testing.T) {
	tpl, err := LoadTemplates()
	require.NoError(t, err)

	out, err := tpl.Render(TplMaintenanceReminder, MaintenanceReminderData{
		CustomerName: "Jane Doe",
		BookingURL:   "http://localhost:3000/book-service",
		CompanyPhone: "(555) 123-4567",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "annual HVAC maintenance")
	assert.Contains(t, out, "We don't have a record of your last service date.")
	assert.Contains(t, out, `href="http://localhost:3000/book-service"`)

	last := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	out, err = tpl.Render(TplMaintenanceReminder, MaintenanceReminderData{
		CustomerName:    "Jane Doe",
		EquipmentType:   "Furnace",
		LastServiceDate: &last,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "annual Furnace maintenance")
	assert.Contains(t, out, "March 4, 2025")
}

func TestRenderUnknownTemplate(t *testing.T) {
	tpl, err := LoadTemplates()
	require.NoError(t, err)
	_, err = tpl.Render("nope", nil)
	assert.Error(t, err)
}

func TestPlainText(t *testing.T) {
	got := PlainText("<div>\n  <h2>Hi</h2>\n  <p>It&#39;s time<br>now</p>\n</div>")
	assert.Equal(t, "Hi\nIt's time\nnow", got)
}

func TestBuildMessage(t *testing.T) {
	m, err := buildMessage("noreply@hvacpro.com", model.EmailMessage{
		ID:      "abc",
		To:      "jane@example.com",
		ReplyTo: "bob@example.com",
		Subject: "Service Request Received",
		HTML:    "<p>Hello</p>",
	}, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)

	s := buf.String()
	assert.Contains(t, s, "From: <noreply@hvacpro.com>")
	assert.Contains(t, s, "To: <jane@example.com>")
	assert.Contains(t, s, "Reply-To: <bob@example.com>")
	assert.Contains(t, s, "Message-ID: <abc@hvac-backend>")
	assert.Contains(t, s, "Subject: Service Request Received")
	assert.Contains(t, s, "multipart/alternative")
	assert.Contains(t, s, "text/plain")
	assert.Contains(t, s, "<p>Hello</p>")
	assert.Contains(t, s, "Content-Transfer-Encoding: quoted-printable")
}

func TestBuildMessageKeepsLinesShort(t *testing.T) {
	tpl, err := LoadTemplates()
	require.NoError(t, err)
	html, err := tpl.Render(TplContactRelay, ContactData{
		Name:    "Bob",
		Email:   "bob@example.com",
		Message: strings.Repeat("my furnace rattles ", 120),
	})
	require.NoError(t, err)

	m, err := buildMessage("office@hvacpro.com", model.EmailMessage{
		To:      "office@hvacpro.com",
		Subject: "Contact Form: New Message",
		HTML:    html,
	}, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)

	for _, line := range strings.Split(buf.String(), "\r\n") {
		assert.LessOrEqual(t, len(line), 998)
	}
	assert.Contains(t, buf.String(), "my furnace rattles")
}
