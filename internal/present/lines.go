package present

import (
	"fmt"
	"strings"
)

// lines.go centralises the user-facing sentences of the console and the
// player. Keep them short.

// ── Authoring console ────────────────────────────────────────────

func LineWelcome(user string) string {
	if user == "" {
		return "Hello. You are browsing anonymously; new ingredients need a signed-in user."
	}
	return fmt.Sprintf("Hello %s. Let's write a recipe.", user)
}

func LineStage(stage string) string {
	return fmt.Sprintf("Now on: %s. Type 'help' for commands.", stage)
}

func LineBlocked(reasons []string) string {
	return "Can't move on yet: " + strings.Join(reasons, "; ") + "."
}

func LineCollaboratorFailed(op string) string {
	return fmt.Sprintf("%s failed. Nothing you entered was lost; try again.", op)
}

func LineAlreadyFirst() string {
	return "Already at the first stage."
}

func LinePriceCleared() string {
	return "Recipe is private now; price removed."
}

func LineSubmitted(title, id string) string {
	return fmt.Sprintf("Submitted %q (id %s).", title, id)
}

func LineUnknown(input string) string {
	return fmt.Sprintf("Didn't catch %q. Type 'help'.", input)
}

func LineBye() string {
	return "Bye."
}

// ── Player ───────────────────────────────────────────────────────

func LineTimerDone(title string) string {
	return fmt.Sprintf("[Timer] %s is up.", title)
}

func LinePlaybackDone(title string) string {
	return fmt.Sprintf("That was the last step of %s. Enjoy.", title)
}
