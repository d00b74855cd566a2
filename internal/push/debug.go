package push

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/messaging"
	"golang.org/x/oauth2/google"
)

const messagingScope = "https://www.googleapis.com/auth/firebase.messaging"

// DebugCurl returns a curl command that replays message against the FCM v1 API.
func DebugCurl(ctx context.Context, credJSON, projectID string, message *messaging.Message) string {
	creds, err := google.CredentialsFromJSON(ctx, []byte(credJSON), messagingScope)
	if err != nil {
		return fmt.Sprintf("# ERROR: Failed to parse credentials: %v", err)
	}

	token, err := creds.TokenSource.Token()
	if err != nil {
		return fmt.Sprintf("# ERROR: Failed to get OAuth token: %v", err)
	}

	payload, err := DebugPayload(message)
	if err != nil {
		return fmt.Sprintf("# ERROR: Failed to marshal payload: %v", err)
	}

	return fmt.Sprintf(`curl -X POST \
  'https://fcm.googleapis.com/v1/projects/%s/messages:send' \
  -H 'Authorization: Bearer %s' \
  -H 'Content-Type: application/json' \
  -d '%s'`,
		projectID,
		token.AccessToken,
		strings.ReplaceAll(payload, "'", `'\''`))
}

// DebugPayload renders message as the FCM v1 request body.
func DebugPayload(message *messaging.Message) (string, error) {
	body := map[string]interface{}{
		"token": message.Token,
	}
	if n := message.Notification; n != nil {
		body["notification"] = omitEmpty(map[string]string{
			"title": n.Title,
			"body":  n.Body,
			"image": n.ImageURL,
		})
	}
	if w := message.Webpush; w != nil {
		webpush := map[string]interface{}{}
		if n := w.Notification; n != nil {
			webpush["notification"] = omitEmpty(map[string]string{
				"title": n.Title,
				"body":  n.Body,
				"icon":  n.Icon,
				"image": n.Image,
				"badge": n.Badge,
			})
		}
		if w.FCMOptions != nil {
			webpush["fcm_options"] = map[string]string{"link": w.FCMOptions.Link}
		}
		body["webpush"] = webpush
	}
	if len(message.Data) > 0 {
		body["data"] = message.Data
	}

	raw, err := json.Marshal(map[string]interface{}{"message": body})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func omitEmpty(m map[string]string) map[string]string {
	for k, v := range m {
		if v == "" {
			delete(m, k)
		}
	}
	return m
}
