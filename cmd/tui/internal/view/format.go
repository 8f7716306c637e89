package view

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const dbTimeout = 5 * time.Second

// CommonModel carries the terminal dimensions shared by every view.
type CommonModel struct {
	Width  int
	Height int
}

// BackMsg asks the root model to return to the main menu.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// FormatAmount renders a whole-MAD amount with its currency.
func FormatAmount(mad int64) string {
	return fmt.Sprintf("%d MAD", mad)
}

// FormatDate formats a time.Time into the French DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
