// Package soap implements the client for the CountryInfoService directory.
//
// The client speaks SOAP 1.1 document/literal over HTTP. It first downloads
// the WSDL to locate the service endpoint and confirm that the
// ListOfCountryNamesByCode operation is offered, then posts the request
// envelope and decodes the tCountryCodeAndName sequence.
//
// # Error Handling
//
// Every failure (transport, non-2xx status, SOAP Fault, undecodable XML,
// entries missing sISOCode or sName) wraps countrysync.ErrRemoteFetch.
// Nothing is retried.
//
// # Example Usage
//
//	client := soap.NewClient(countrysync.DefaultWSDL, soap.WithLogger(logger))
//	records, err := client.FetchCountries(ctx)
package soap
