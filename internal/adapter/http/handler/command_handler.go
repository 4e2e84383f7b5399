package handler

import (
	"trading-gateway/internal/adapter/http/dto"
	"trading-gateway/internal/core/ports"
	"trading-gateway/pkg/apperror"
	"trading-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// CommandHandler handles the free-form text command endpoint.
type CommandHandler struct {
	commandSvc ports.CommandService
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(commandSvc ports.CommandService) *CommandHandler {
	return &CommandHandler{commandSvc: commandSvc}
}

// Execute handles POST /api/v1/command. Interpretation failures are a
// successful HTTP exchange with an unsuccessful result; the endpoint
// errors only on malformed requests.
func (h *CommandHandler) Execute(c *gin.Context) {
	var req dto.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	cmd := h.commandSvc.Interpret(req.Text)
	result := h.commandSvc.Dispatch(c.Request.Context(), req.WalletAddress, cmd)

	response.OK(c, dto.CommandResponse{
		Success: result.Success,
		Kind:    string(cmd.Kind),
		Message: result.Message,
		Data:    result.Data,
	})
}
