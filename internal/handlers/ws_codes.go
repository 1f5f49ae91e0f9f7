// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used within the game handlers.
// These provide more specific reasons for closure than standard codes.
const (
	BadSubprotocolError   = 3000 // Client connected with an unsupported subprotocol.
	InvalidSessionIDError = 3002 // Target session ID in the WS URL does not exist or is invalid.
)
