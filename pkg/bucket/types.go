package bucket

import (
	"encoding/xml"
	"time"
)

// ListBucketResult is the S3 ListObjects (V1) response document. Tags carry
// no namespace so documents with or without the S3 namespace both decode.
type ListBucketResult struct {
	XMLName        xml.Name       `xml:"ListBucketResult"`
	Name           string         `xml:"Name"`
	Prefix         string         `xml:"Prefix"`
	Marker         string         `xml:"Marker"`
	NextMarker     string         `xml:"NextMarker"`
	Delimiter      string         `xml:"Delimiter"`
	MaxKeys        int            `xml:"MaxKeys"`
	IsTruncated    bool           `xml:"IsTruncated"`
	Contents       []Object       `xml:"Contents"`
	CommonPrefixes []CommonPrefix `xml:"CommonPrefixes"`
}

// Object is a single key listed under the requested prefix.
type Object struct {
	Key          string     `xml:"Key"`
	Size         *int64     `xml:"Size"`
	LastModified *time.Time `xml:"LastModified"`
	ETag         string     `xml:"ETag"`
}

// CommonPrefix is one "directory" below the requested prefix.
type CommonPrefix struct {
	Prefix string `xml:"Prefix"`
}
