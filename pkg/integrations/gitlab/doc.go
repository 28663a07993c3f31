// Package gitlab implements the GitLab REST client used for catalog
// enrichment. Projects are addressed as /projects/{path} with the path
// %2F-encoded, and a 429 response is the rate-limit signal.
package gitlab
