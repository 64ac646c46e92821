package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"
)

// maxSlackNames bounds the list of names included in one message.
const maxSlackNames = 25

// SlackReporter posts a scan summary to an incoming webhook.
type SlackReporter struct {
	webhookURL string
}

func NewSlackReporter(webhookURL string) *SlackReporter {
	return &SlackReporter{
		webhookURL: webhookURL,
	}
}

func (r *SlackReporter) Report(ctx context.Context, scan Scan) error {
	message := slack.WebhookMessage{
		Text: slackText(scan),
	}

	if err := slack.PostWebhookContext(ctx, r.webhookURL, &message); err != nil {
		return fmt.Errorf("sending Slack notification: %w", err)
	}
	return nil
}

func slackText(scan Scan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*Subdomain enumeration finished*\n*Domain:* %s\n*Found:* %d of %d candidates\n",
		scan.Domain, len(scan.Results), scan.Stats.Total)
	if scan.Wildcard != nil {
		fmt.Fprintf(&b, "*Wildcard:* %s (%d filtered)\n", scan.Wildcard, scan.Stats.WildcardFiltered)
	}

	names := scan.Names()
	if len(names) == 0 {
		return b.String()
	}

	shown := names
	if len(shown) > maxSlackNames {
		shown = shown[:maxSlackNames]
	}
	b.WriteString("```\n" + strings.Join(shown, "\n") + "\n```")
	if rest := len(names) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "\n…and %d more", rest)
	}

	return b.String()
}
