package nfewms_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/nfe-wms-connector/pkg/nfewms"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<nfeProc>
	<NFe>
		<infNFe Id="NFe42250302457533000203550010000422761011740306">
			<ide>
				<nNF>42276</nNF>
				<serie>1</serie>
				<dhEmi>2025-03-10T09:30:00-03:00</dhEmi>
			</ide>
			<emit><CNPJ>02457533000203</CNPJ></emit>
			<dest><CNPJ>07876967000180</CNPJ></dest>
			<det nItem="1">
				<prod>
					<cProd>SKU-1</cProd>
					<xProd>Produto Um</xProd>
					<NCM>84713000</NCM>
					<uCom>UN</uCom>
					<qCom>2.0000</qCom>
					<vUnCom>10.00</vUnCom>
					<vProd>20.00</vProd>
					<cEAN>7891234567895</cEAN>
				</prod>
			</det>
			<total><ICMSTot><vNF>20.00</vNF></ICMSTot></total>
		</infNFe>
	</NFe>
</nfeProc>`

func TestNewProcessor(t *testing.T) {
	proc := nfewms.NewProcessor(nfewms.Options{Endpoint: "http://localhost:1"})
	require.NotNil(t, proc)
}

func TestNewDefaultProcessor(t *testing.T) {
	proc := nfewms.NewDefaultProcessor()
	require.NotNil(t, proc)
}

func TestDefaultOptions(t *testing.T) {
	opts := nfewms.DefaultOptions()

	assert.Equal(t, "http://webcorpem.no-ip.info:37560/scripts/mh.dll/wc", opts.Endpoint)
	assert.Equal(t, "6cnc3", opts.Token)
	assert.Equal(t, "07876967000180", opts.OperatorTaxID)
}

func TestProcessorFullRun(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "6cnc3", r.Header.Get("TOKEN_CP"))
		w.Write([]byte(`{"CORPEM_WS_OK":"1"}`))
	}))
	defer srv.Close()

	proc := nfewms.NewProcessor(nfewms.Options{Endpoint: srv.URL})
	res := proc.Process(context.Background(), strings.NewReader(sampleXML))

	require.False(t, res.Failed())
	require.NotNil(t, res.Document)
	assert.Equal(t, "42276", res.Document.Number)
	assert.Equal(t, "42250302457533000203550010000422761011740306", res.Document.AccessKey)
	require.Len(t, res.Products, 1)
	assert.Equal(t, nfewms.StatusSuccess, res.Products[0].Status)
	require.NotNil(t, res.Invoice)
	assert.Equal(t, nfewms.StatusSuccess, res.Invoice.Status)
	assert.Equal(t, 2, calls)
}

func TestProcessorVendorRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"CORPEM_WS_ERRO":"Produto invalido"}`))
	}))
	defer srv.Close()

	proc := nfewms.NewProcessor(nfewms.Options{Endpoint: srv.URL})
	res := proc.ProcessBytes(context.Background(), []byte(sampleXML))

	require.True(t, res.Failed())
	assert.Equal(t, nfewms.KindVendorError, res.ErrorKind())
	require.Len(t, res.Products, 1)
	assert.Equal(t, nfewms.StatusVendorError, res.Products[0].Status)
	assert.Nil(t, res.Invoice)
}

func TestProcessorMalformedInput(t *testing.T) {
	proc := nfewms.NewProcessor(nfewms.Options{Endpoint: "http://localhost:1"})
	res := proc.ProcessBytes(context.Background(), []byte("not xml at all <"))

	require.True(t, res.Failed())
	assert.Equal(t, nfewms.KindMalformedDocument, res.ErrorKind())
}
