package model

// Vendor is the forwarding template for one supported supplier. The sender
// address comes from configuration; everything else is fixed per vendor.
type Vendor struct {
	Name           string
	SenderAddress  string
	Subject        string
	TextBody       string
	AttachmentName string
}

// DigiKeyVendor returns the Digi-Key forwarding template.
func DigiKeyVendor(sender string) Vendor {
	return Vendor{
		Name:           "Digi-Key",
		SenderAddress:  sender,
		Subject:        "Invoice for Digi-Key transaction",
		TextBody:       "This is an automatically generated email to upload a Digi-Key invoice to Divvy.",
		AttachmentName: "invoice.pdf",
	}
}

// McMasterVendor returns the McMaster-Carr forwarding template.
func McMasterVendor(sender string) Vendor {
	return Vendor{
		Name:           "McMaster-Carr",
		SenderAddress:  sender,
		Subject:        "Receipt for McMaster-Carr transaction",
		TextBody:       "This is an automatically generated email to upload a McMaster-Carr receipt to Divvy.",
		AttachmentName: "receipt.pdf",
	}
}

// TopKartVendor returns the Top Kart forwarding template.
func TopKartVendor(sender string) Vendor {
	return Vendor{
		Name:           "Top Kart",
		SenderAddress:  sender,
		Subject:        "Receipt for Top Kart transaction",
		TextBody:       "This is an automatically generated email to upload a Top Kart receipt to Divvy.",
		AttachmentName: "receipt.pdf",
	}
}
