package aging

import (
	"fmt"
	"log"
	"net/http"

	"Aging43B/internal/serviceiface"
)

type AgingService struct {
	config map[string]interface{}
}

func NewAgingService(cfg map[string]interface{}) serviceiface.Service {
	return &AgingService{config: cfg}
}

func (s *AgingService) Name() string {
	return "aging"
}

func (s *AgingService) Start() error {
	go StartAgingService(s.config)
	return nil
}

func (s *AgingService) Stop() error {
	return nil
}

// StartAgingService runs the aging + 43B(h) HTTP service on its own
// port, proxied to by the gateway.
func StartAgingService(cfg map[string]interface{}) {
	port := "7143"
	switch v := cfg["port"].(type) {
	case int:
		port = fmt.Sprintf("%d", v)
	case float64:
		port = fmt.Sprintf("%d", int(v))
	case string:
		if v != "" {
			port = v
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/aging/ledger/upload", UploadLedger(DefaultStore))
	mux.HandleFunc("/aging/msme/template", DownloadMsmeTemplate(DefaultStore))
	mux.HandleFunc("/aging/msme/upload", UploadMsmeMapping(DefaultStore))
	mux.HandleFunc("/aging/msme/export", ExportMsmeMapping(DefaultStore))
	mux.HandleFunc("/aging/run", RunProcessing(DefaultStore))
	mux.HandleFunc("/aging/export", ExportReport(DefaultStore))

	log.Println("Aging Service started on :" + port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatalf("Aging Service failed: %v", err)
	}
}
