package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RoDaGroJi/TiendaSinu-Back/internal/infra"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RemitoJobPayload identifies the dispatched order to document.
type RemitoJobPayload struct {
	PedidoID string `json:"pedido_id"`
}

// RemitoWorker renders the dispatch note PDF for a dispatched order and
// hands it to the email queue. PDF generation runs off the request path on
// purpose: dispatch already committed, the paperwork must not block it.
type RemitoWorker struct {
	pedidos     repository.PedidoRepository
	dispatcher  *Dispatcher
	storagePath string
	ventasEmail string
}

func NewRemitoWorker(pedidos repository.PedidoRepository, dispatcher *Dispatcher, storagePath, ventasEmail string) *RemitoWorker {
	return &RemitoWorker{
		pedidos:     pedidos,
		dispatcher:  dispatcher,
		storagePath: storagePath,
		ventasEmail: ventasEmail,
	}
}

func (w *RemitoWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload RemitoJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("remito: invalid payload")
		return
	}
	pedidoID, err := uuid.Parse(payload.PedidoID)
	if err != nil {
		log.Error().Str("pedido_id", payload.PedidoID).Msg("remito: invalid pedido id")
		return
	}

	pedido, err := w.pedidos.FindByID(ctx, pedidoID)
	if err != nil {
		log.Error().Err(err).Str("pedido_id", payload.PedidoID).Msg("remito: pedido not found")
		return
	}

	var pdfPath string
	err = withRetry(ctx, 3, func(attempt int) error {
		path, err := infra.GenerateRemitoPDF(pedido, w.storagePath)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Str("pedido_id", payload.PedidoID).Msg("remito: PDF generation failed")
			return err
		}
		pdfPath = path
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("pedido_id", payload.PedidoID).Msg("remito: giving up on PDF generation")
		return
	}
	log.Info().Str("pedido_id", payload.PedidoID).Str("pdf", pdfPath).Msg("remito: PDF generated")

	if w.ventasEmail == "" {
		return
	}
	emailJob := EmailJobPayload{
		ToEmail: w.ventasEmail,
		Subject: fmt.Sprintf("Remito pedido %s — %s", corto(payload.PedidoID), pedido.ClienteNombre),
		Body: fmt.Sprintf(
			"Pedido despachado.\nCliente: %s (%s)\nTotal: $%s",
			pedido.ClienteNombre, pedido.ClienteTelefono, pedido.TotalEstimado.StringFixed(2),
		),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Error().Err(err).Str("pedido_id", payload.PedidoID).Msg("remito: failed to enqueue email")
	}
}

// withRetry runs fn up to maxAttempts times with exponential backoff
// (1s, 2s, 4s...), honouring context cancellation between attempts.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var err error
	for i := 1; i <= maxAttempts; i++ {
		if err = fn(i); err == nil {
			return nil
		}
		if i == maxAttempts {
			break
		}
		backoff := time.Duration(1<<uint(i-1)) * time.Second
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return err
}

// corto shortens a uuid for email subjects.
func corto(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
