// Package site loads the brochure-site configuration: navigation, page copy,
// contact channels, theme tokens, and animation timelines. Defaults are
// embedded; a YAML file overlays them and can be watched for changes.
package site
