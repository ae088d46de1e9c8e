package web

import (
	"errors"
	"net/http"

	"github.com/boat-builder/chatpod"
	"github.com/gin-gonic/gin"
)

const footerText = "Bot can make mistakes. Consider checking important information :)."

type chatRequest struct {
	Prompt string `json:"prompt"`
}

type pageData struct {
	ModelName string
	Exchanges []chatpod.Exchange
	Notice    string
	Footer    string
}

func (s *Server) index(c *gin.Context) {
	sess := s.session(c)
	c.HTML(http.StatusOK, "index", pageData{
		ModelName: s.modelName,
		Exchanges: sess.Snapshot(),
		Notice:    sess.TakeNotice(),
		Footer:    footerText,
	})
}

// search handles the "Search" button. Whatever the outcome the browser is sent
// back to the page, which renders the history and any notice.
func (s *Server) search(c *gin.Context) {
	sess := s.session(c)
	prompt := c.PostForm("prompt")
	if chatpod.ValidPrompt(prompt) {
		if _, err := sess.Submit(c.Request.Context(), prompt); err != nil {
			var failure *chatpod.Failure
			if !errors.As(err, &failure) {
				s.logger.Error("Submit failed unexpectedly", "sessionID", sess.ID(), "error", err)
			}
		}
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) clear(c *gin.Context) {
	s.session(c).Clear()
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) listExchanges(c *gin.Context) {
	c.JSON(http.StatusOK, Success(s.session(c).Snapshot()))
}

func (s *Server) clearExchanges(c *gin.Context) {
	s.session(c).Clear()
	c.JSON(http.StatusOK, Success([]chatpod.Exchange{}))
}

func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	sess := s.session(c)
	ex, err := sess.Submit(c.Request.Context(), req.Prompt)
	if err == nil {
		c.JSON(http.StatusOK, Success(ex))
		return
	}

	var failure *chatpod.Failure
	if !errors.As(err, &failure) {
		s.logger.Error("Submit failed unexpectedly", "sessionID", sess.ID(), "error", err)
		c.JSON(http.StatusInternalServerError, Fail(chatpod.Notice(err)))
		return
	}
	switch failure.Kind {
	case chatpod.FailureValidation:
		c.JSON(http.StatusBadRequest, Fail(failure.Message))
	case chatpod.FailureConnectivity:
		c.JSON(http.StatusServiceUnavailable, Fail(chatpod.Notice(err)))
	case chatpod.FailureRemoteRequest:
		c.JSON(http.StatusBadGateway, Fail(chatpod.Notice(err)))
	default:
		c.JSON(http.StatusInternalServerError, Fail(chatpod.Notice(err)))
	}
}
