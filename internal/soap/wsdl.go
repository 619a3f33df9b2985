package soap

import (
	"encoding/xml"
	"fmt"
)

const soap11BindingNamespace = "http://schemas.xmlsoap.org/wsdl/soap/"

// wsdlDefinitions holds the parts of a WSDL 1.1 document the client needs.
type wsdlDefinitions struct {
	XMLName   xml.Name       `xml:"definitions"`
	PortTypes []wsdlPortType `xml:"portType"`
	Services  []wsdlService  `xml:"service"`
}

type wsdlPortType struct {
	Name       string          `xml:"name,attr"`
	Operations []wsdlOperation `xml:"operation"`
}

type wsdlOperation struct {
	Name string `xml:"name,attr"`
}

type wsdlService struct {
	Name  string     `xml:"name,attr"`
	Ports []wsdlPort `xml:"port"`
}

type wsdlPort struct {
	Name    string       `xml:"name,attr"`
	Binding string       `xml:"binding,attr"`
	Address *soapAddress `xml:"http://schemas.xmlsoap.org/wsdl/soap/ address"`
}

type soapAddress struct {
	Location string `xml:"location,attr"`
}

// parseWSDL returns the SOAP 1.1 endpoint of the first service port and
// verifies that operation is declared by some portType.
func parseWSDL(doc []byte, operation string) (string, error) {
	var defs wsdlDefinitions
	if err := xml.Unmarshal(doc, &defs); err != nil {
		return "", fmt.Errorf("invalid WSDL: %w", err)
	}

	if !declaresOperation(defs, operation) {
		return "", fmt.Errorf("WSDL does not declare operation %s", operation)
	}

	for _, svc := range defs.Services {
		for _, port := range svc.Ports {
			if port.Address != nil && port.Address.Location != "" {
				return port.Address.Location, nil
			}
		}
	}
	return "", fmt.Errorf("WSDL has no port with a %s address", soap11BindingNamespace)
}

func declaresOperation(defs wsdlDefinitions, operation string) bool {
	for _, pt := range defs.PortTypes {
		for _, op := range pt.Operations {
			if op.Name == operation {
				return true
			}
		}
	}
	return false
}
