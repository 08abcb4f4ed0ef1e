package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/classleaf/quizport/internal/quiz"
	"github.com/classleaf/quizport/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type windowMessage struct {
	Type   string           `json:"type"`
	Window quiz.WindowState `json:"window"`
}

// GET /quizzes/{quizID}/session — public websocket streaming the quiz's
// window state once per second. The stream only refreshes displayed state;
// the capture engine re-checks the window itself at submit time.
func SessionHandler(svc *quiz.Service, ctrl *session.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, _, err := svc.StudentQuiz(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeErr(w, err)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("ws upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		// Drain reads so close frames are processed.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for state := range ctrl.Watch(r.Context(), q) {
			if err := conn.WriteJSON(windowMessage{Type: "window", Window: state}); err != nil {
				return
			}
		}
	}
}
