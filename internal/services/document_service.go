// internal/services/document_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/creatorbridge/negotiation-backend/internal/models"
)

// DocumentService renders printable contract documents. Rendering is a pure
// function of the contract record, so the same contract state always yields
// the same bytes.
type DocumentService struct {
	tmpl *template.Template
}

func NewDocumentService() (*DocumentService, error) {
	tmpl, err := template.New("contract").Funcs(template.FuncMap{
		"amount": func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"label": func(s string) string {
			label := strings.ReplaceAll(s, "_", " ")
			if label == "" {
				return s
			}
			return strings.ToUpper(label[:1]) + label[1:]
		},
	}).Parse(contractDocumentTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract template: %w", err)
	}
	return &DocumentService{tmpl: tmpl}, nil
}

func (s *DocumentService) Render(contract *models.Contract) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, contract); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const contractDocumentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Georgia, serif; max-width: 800px; margin: 40px auto; color: #222; }
h1 { border-bottom: 2px solid #222; padding-bottom: 8px; }
h2 { margin-top: 32px; }
table { width: 100%; border-collapse: collapse; margin: 16px 0; }
th, td { border: 1px solid #999; padding: 8px; text-align: left; }
.clause { background: #f7f7f7; padding: 12px; margin: 12px 0; }
.signature-block { margin-top: 48px; display: flex; justify-content: space-between; }
.signature { width: 45%; border-top: 1px solid #222; padding-top: 8px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Description}}</p>
<p><strong>Contract number:</strong> {{.ContractNumber}}<br>
<strong>Contract ID:</strong> {{.ID}}<br>
<strong>Status:</strong> {{.Status}}<br>
<strong>Campaign period:</strong> {{.CampaignStart.Format "January 2, 2006"}} to {{.CampaignEnd.Format "January 2, 2006"}}</p>

<h2>Parties</h2>
<p><strong>Brand:</strong> {{.BrandName}} ({{.BrandEmail}})<br>
<strong>Influencer:</strong> {{.InfluencerName}} ({{.InfluencerEmail}})</p>

<h2>Deliverables</h2>
<table>
<tr><th>Deliverable</th><th>Quantity</th><th>Unit rate</th><th>Line total</th></tr>
{{range .Deliverables}}
<tr><td>{{label (printf "%s" .ContentType)}}</td><td>{{.Quantity}}</td><td>{{amount .UnitRate}} {{$.Currency}}</td><td>{{amount .LineTotal}} {{$.Currency}}</td></tr>
{{end}}
<tr><th colspan="3">Total compensation</th><th>{{amount .TotalAmount}} {{.Currency}}</th></tr>
</table>

<h2>Commercial terms</h2>
<p><strong>Payment terms:</strong> {{.PaymentTerms}}<br>
<strong>Usage rights:</strong> {{.UsageRights}}<br>
<strong>Revisions included:</strong> {{.Revisions}} per deliverable</p>

<h2>Cancellation</h2>
<div class="clause">{{.CancellationPolicy}}</div>

<h2>Dispute resolution</h2>
<div class="clause">{{.DisputeResolution}}</div>

<p><strong>Governing law:</strong> {{.GoverningLaw}}</p>

<div class="signature-block">
<div class="signature">
<p><strong>Brand</strong><br>
{{if .BrandSignature}}Signed by {{.BrandSignature.Name}} on {{.BrandSignature.SignedAt.Format "January 2, 2006 15:04 MST"}}{{else}}Pending signature{{end}}</p>
</div>
<div class="signature">
<p><strong>Influencer</strong><br>
{{if .InfluencerSignature}}Signed by {{.InfluencerSignature.Name}} on {{.InfluencerSignature.SignedAt.Format "January 2, 2006 15:04 MST"}}{{else}}Pending signature{{end}}</p>
</div>
</div>
</body>
</html>
`
