package davclient

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// multistatus mirrors the DAV: multistatus response body. Local element
// names are matched without a namespace so responses from servers using
// d:, D: or default-namespace prefixes all decode the same way.
type multistatus struct {
	XMLName   xml.Name      `xml:"multistatus"`
	Responses []davResponse `xml:"response"`
}

type davResponse struct {
	Href      string     `xml:"href"`
	Propstats []propstat `xml:"propstat"`
}

type propstat struct {
	Status string  `xml:"status"`
	Prop   davProp `xml:"prop"`
}

type davProp struct {
	ResourceType  resourceType `xml:"resourcetype"`
	ContentType   string       `xml:"getcontenttype"`
	ContentLength string       `xml:"getcontentlength"`
	ETag          string       `xml:"getetag"`
	DisplayName   string       `xml:"displayname"`
	LastModified  string       `xml:"getlastmodified"`
	CreationDate  string       `xml:"creationdate"`
}

type resourceType struct {
	Collection *struct{} `xml:"collection"`
}

func (c *Client) parseMultistatus(body []byte) ([]Resource, error) {
	var ms multistatus
	if err := xml.Unmarshal(body, &ms); err != nil {
		return nil, fmt.Errorf("davclient: invalid multistatus response: %w", err)
	}
	resources := make([]Resource, 0, len(ms.Responses))
	for _, r := range ms.Responses {
		res, err := c.parseResponse(r)
		if err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, nil
}

func (c *Client) parseResponse(r davResponse) (Resource, error) {
	rel, err := c.relativePath(r.Href)
	if err != nil {
		return Resource{}, err
	}
	res := Resource{Href: r.Href, Path: rel}
	for _, ps := range r.Propstats {
		// Only the 200 propstat carries values; the 404 one lists the
		// properties the server does not have.
		if !strings.Contains(ps.Status, "200") {
			continue
		}
		p := ps.Prop
		res.IsCollection = p.ResourceType.Collection != nil
		res.ContentType = p.ContentType
		res.ETag = p.ETag
		res.DisplayName = p.DisplayName
		if p.ContentLength != "" {
			if n, err := strconv.ParseInt(strings.TrimSpace(p.ContentLength), 10, 64); err == nil {
				res.ContentLength = &n
			}
		}
		if p.LastModified != "" {
			if t, err := time.Parse(time.RFC1123, p.LastModified); err == nil {
				res.Modified = t
			}
		}
		if p.CreationDate != "" {
			if t, err := time.Parse(time.RFC3339, p.CreationDate); err == nil {
				res.Created = t
			}
		}
	}
	return res, nil
}
