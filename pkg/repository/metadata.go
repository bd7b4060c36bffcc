package repository

import (
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/identity"
)

// lastUpdatedLayout is Maven's yyyyMMddHHmmss timestamp.
const lastUpdatedLayout = "20060102150405"

// Metadata is the subset of maven-metadata.xml used for version listing.
type Metadata struct {
	ArtifactID  string
	Latest      string
	Release     string
	Versions    []identity.Version
	LastUpdated time.Time
}

// ParseMetadata reads a maven-metadata.xml document. Versions that do not
// parse are skipped with a warning rather than failing the listing.
func ParseMetadata(data []byte) (*Metadata, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid maven metadata")
	}
	root := doc.SelectElement("metadata")
	if root == nil {
		return nil, errors.New(errors.ErrInvalidInput, "maven metadata has no <metadata> root")
	}

	md := &Metadata{ArtifactID: childText(root, "artifactId")}
	versioning := root.SelectElement("versioning")
	if versioning == nil {
		return md, nil
	}
	md.Latest = childText(versioning, "latest")
	md.Release = childText(versioning, "release")
	if ts := childText(versioning, "lastUpdated"); ts != "" {
		if t, err := time.Parse(lastUpdatedLayout, ts); err == nil {
			md.LastUpdated = t
		}
	}

	for _, el := range versioning.FindElements("./versions/version") {
		raw := strings.TrimSpace(el.Text())
		v, err := identity.ParseVersion(raw)
		if err != nil {
			log.Warn().Str("artifact", md.ArtifactID).Str("version", raw).Msg("Skipping unparseable version")
			continue
		}
		md.Versions = append(md.Versions, v)
	}
	return md, nil
}

// RenderMetadata produces a maven-metadata.xml document listing versions for
// name. Latest and release point at the highest version.
func RenderMetadata(name string, versions []identity.Version, updated time.Time) ([]byte, error) {
	sorted := append([]identity.Version(nil), versions...)
	identity.SortVersions(sorted)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("metadata")
	root.CreateElement("artifactId").SetText(name)

	versioning := root.CreateElement("versioning")
	if n := len(sorted); n > 0 {
		newest := sorted[n-1].String()
		versioning.CreateElement("latest").SetText(newest)
		versioning.CreateElement("release").SetText(newest)
	}
	list := versioning.CreateElement("versions")
	for _, v := range sorted {
		list.CreateElement("version").SetText(v.String())
	}
	versioning.CreateElement("lastUpdated").SetText(updated.UTC().Format(lastUpdatedLayout))

	doc.Indent(2)
	return doc.WriteToBytes()
}

func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}
