package soap

import (
	"encoding/xml"
	"fmt"

	"github.com/vvka-141/countrysync/pkg/countrysync"
)

const (
	envelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"

	// OperationListOfCountryNamesByCode is the remote operation called by FetchCountries.
	OperationListOfCountryNamesByCode = "ListOfCountryNamesByCode"
)

// requestEnvelope is the outgoing SOAP 1.1 envelope.
// Prefixed element names are written verbatim by encoding/xml.
type requestEnvelope struct {
	XMLName xml.Name    `xml:"soap:Envelope"`
	SoapNS  string      `xml:"xmlns:soap,attr"`
	Body    requestBody `xml:"soap:Body"`
}

type requestBody struct {
	Operation listOfCountryNamesByCode
}

type listOfCountryNamesByCode struct {
	XMLName xml.Name `xml:"ListOfCountryNamesByCode"`
	Xmlns   string   `xml:"xmlns,attr"`
}

// buildRequest renders the ListOfCountryNamesByCode request document.
func buildRequest() ([]byte, error) {
	env := requestEnvelope{
		SoapNS: envelopeNamespace,
		Body: requestBody{
			Operation: listOfCountryNamesByCode{Xmlns: countrysync.ServiceNamespace},
		},
	}
	out, err := xml.Marshal(env)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// responseEnvelope matches elements by local name, so any prefix the server
// chooses (soap:, m:, none) decodes the same way.
type responseEnvelope struct {
	XMLName xml.Name     `xml:"Envelope"`
	Body    responseBody `xml:"Body"`
}

type responseBody struct {
	Fault    *Fault        `xml:"Fault"`
	Response *listResponse `xml:"ListOfCountryNamesByCodeResponse"`
}

type listResponse struct {
	Result listResult `xml:"ListOfCountryNamesByCodeResult"`
}

type listResult struct {
	Countries []countryCodeAndName `xml:"tCountryCodeAndName"`
}

// countryCodeAndName uses pointers so that absent elements can be told apart
// from empty ones.
type countryCodeAndName struct {
	ISOCode *string `xml:"sISOCode"`
	Name    *string `xml:"sName"`
}

// Fault is a SOAP 1.1 fault returned by the service.
type Fault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
	Actor  string `xml:"faultactor"`
}

func (f *Fault) Error() string {
	return fmt.Sprintf("SOAP fault %s: %s", f.Code, f.String)
}

// decodeResponse parses a response body into normalized records.
func decodeResponse(body []byte) ([]countrysync.CountryRecord, error) {
	var env responseEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("invalid SOAP response: %w", err)
	}
	if env.Body.Fault != nil {
		return nil, env.Body.Fault
	}
	if env.Body.Response == nil {
		return nil, fmt.Errorf("SOAP body has no %sResponse element", OperationListOfCountryNamesByCode)
	}

	entries := env.Body.Response.Result.Countries
	records := make([]countrysync.CountryRecord, 0, len(entries))
	for i, entry := range entries {
		if entry.ISOCode == nil || *entry.ISOCode == "" {
			return nil, fmt.Errorf("entry %d: missing sISOCode", i)
		}
		if entry.Name == nil || *entry.Name == "" {
			return nil, fmt.Errorf("entry %d (%s): missing sName", i, *entry.ISOCode)
		}
		records = append(records, countrysync.NewCountryRecord(*entry.ISOCode, *entry.Name))
	}
	return records, nil
}
