package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rseek/internal/state"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
	state      *statepkg.AppState
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetState lets Esc decide between clearing the query and quitting.
func (ih *InputHandler) SetState(state *statepkg.AppState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. It returns false once
// the user asked to quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		ih.actionChan <- statepkg.QuitAction{}
		return false
	case tcell.KeyEscape:
		if ih.state != nil && ih.state.Query != "" {
			ih.actionChan <- statepkg.QueryClearAction{}
			return true
		}
		ih.actionChan <- statepkg.QuitAction{}
		return false

	case tcell.KeyCtrlZ:
		ih.actionChan <- statepkg.SuspendAction{}

	case tcell.KeyEnter:
		ih.actionChan <- statepkg.SubmitSearchAction{}
	case tcell.KeyTab:
		ih.actionChan <- statepkg.CycleSortAction{}
	case tcell.KeyCtrlT:
		ih.actionChan <- statepkg.ToggleContentSearchAction{}
	case tcell.KeyCtrlR:
		ih.actionChan <- statepkg.RescanAction{}
	case tcell.KeyCtrlF:
		ih.actionChan <- statepkg.ToggleFavoriteAction{}
	case tcell.KeyCtrlO:
		ih.actionChan <- statepkg.ShowFavoritesAction{}
	case tcell.KeyCtrlY:
		ih.actionChan <- statepkg.RecallHistoryAction{}
	case tcell.KeyCtrlE:
		ih.actionChan <- statepkg.ExportResultsAction{}
	case tcell.KeyCtrlK:
		ih.actionChan <- statepkg.CopyPathAction{}
	case tcell.KeyCtrlG:
		ih.actionChan <- statepkg.OpenSelectedAction{}
	case tcell.KeyCtrlP:
		ih.actionChan <- statepkg.OpenSelectedAction{Parent: true}

	case tcell.KeyUp:
		ih.actionChan <- statepkg.NavigateUpAction{}
	case tcell.KeyDown:
		ih.actionChan <- statepkg.NavigateDownAction{}
	case tcell.KeyPgUp:
		ih.actionChan <- statepkg.PageUpAction{}
	case tcell.KeyPgDn:
		ih.actionChan <- statepkg.PageDownAction{}

	case tcell.KeyLeft:
		ih.actionChan <- statepkg.QueryCursorLeftAction{}
	case tcell.KeyRight:
		ih.actionChan <- statepkg.QueryCursorRightAction{}
	case tcell.KeyHome, tcell.KeyCtrlA:
		ih.actionChan <- statepkg.QueryCursorHomeAction{}
	case tcell.KeyEnd:
		ih.actionChan <- statepkg.QueryCursorEndAction{}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if ev.Modifiers()&tcell.ModAlt != 0 {
			ih.actionChan <- statepkg.QueryDeleteWordAction{}
		} else {
			ih.actionChan <- statepkg.QueryBackspaceAction{}
		}
	case tcell.KeyCtrlW:
		ih.actionChan <- statepkg.QueryDeleteWordAction{}
	case tcell.KeyCtrlU:
		ih.actionChan <- statepkg.QueryClearAction{}

	case tcell.KeyRune:
		r := ev.Rune()
		if unicode.IsPrint(r) {
			ih.actionChan <- statepkg.QueryCharAction{Char: r}
		}
	}
	return true
}
