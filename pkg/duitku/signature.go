package duitku

import (
	"crypto/md5"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
)

// InvoiceSignature signs the createInvoice headers: sha256(merchantCode + timestamp + apiKey).
func InvoiceSignature(merchantCode string, timestamp int64, apiKey string) string {
	sum := sha256.Sum256([]byte(merchantCode + strconv.FormatInt(timestamp, 10) + apiKey))
	return hex.EncodeToString(sum[:])
}

// StatusSignature signs a transactionStatus request: md5(merchantCode + merchantOrderId + apiKey).
func StatusSignature(merchantCode, merchantOrderID, apiKey string) string {
	sum := md5.Sum([]byte(merchantCode + merchantOrderID + apiKey))
	return hex.EncodeToString(sum[:])
}

// CallbackSignature is the signature the processor attaches to a webhook:
// md5(merchantCode + amount + merchantOrderId + apiKey).
func CallbackSignature(merchantCode, amount, merchantOrderID, apiKey string) string {
	sum := md5.Sum([]byte(merchantCode + amount + merchantOrderID + apiKey))
	return hex.EncodeToString(sum[:])
}

func SignatureEqual(expected, got string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}
