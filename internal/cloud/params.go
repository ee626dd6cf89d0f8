package cloud

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
)

// requiredParams lists the parameters an action cannot run without,
// keyed by "service/action". Actions not listed require nothing beyond
// what the planner already filled in.
var requiredParams = map[string][]string{
	"compute/create_instance":        {"compartment_id", "availability_domain", "shape", "subnet_id", "image_id", "display_name"},
	"compute/launch_instance":        {"compartment_id", "availability_domain", "shape", "subnet_id", "image_id", "display_name"},
	"compute/terminate_instance":     {"instance_id"},
	"compute/stop_instance":          {"instance_id"},
	"compute/start_instance":         {"instance_id"},
	"compute/restart_instance":       {"instance_id"},
	"compute/reboot_instance":        {"instance_id"},
	"virtualnetwork/create_vcn":      {"compartment_id", "cidr_block", "display_name"},
	"virtualnetwork/create_subnet":   {"compartment_id", "vcn_id", "cidr_block", "display_name"},
	"virtualnetwork/delete_vcn":      {"vcn_id"},
	"virtualnetwork/delete_subnet":   {"subnet_id"},
	"objectstorage/create_bucket":    {"compartment_id", "bucket_name"},
	"objectstorage/delete_bucket":    {"bucket_name"},
	"blockstorage/create_volume":     {"compartment_id", "availability_domain", "size_in_gbs", "display_name"},
	"blockstorage/delete_volume":     {"volume_id"},
	"blockstorage/attach_volume":     {"instance_id", "volume_id"},
	"blockstorage/detach_volume":     {"volume_attachment_id"},
	"identity/create_user":           {"name", "description"},
	"identity/delete_user":           {"user_id"},
	"loadbalancer/create_backend":    {"load_balancer_id", "backend_set_name", "ip_address", "port"},
	"database/stop_db_system":        {"db_system_id"},
	"database/start_db_system":       {"db_system_id"},
	"filestorage/create_file_system": {"compartment_id", "availability_domain", "display_name"},
	"dns/create_zone":                {"compartment_id", "zone_name"},
}

// paramSpecs carries user-facing purpose and example text per parameter.
var paramSpecs = map[string]model.ParamSpec{
	"compartment_id":       {Name: "compartment_id", Purpose: "Compartment that owns the resource", Example: "ocid1.compartment.oc1..aaaaexample"},
	"availability_domain":  {Name: "availability_domain", Purpose: "Availability domain for placement", Example: "AD-1"},
	"shape":                {Name: "shape", Purpose: "Compute shape for the instance", Example: "VM.Standard.E4.Flex"},
	"subnet_id":            {Name: "subnet_id", Purpose: "Subnet for the primary network interface", Example: "ocid1.subnet.oc1..aaaaexample"},
	"image_id":             {Name: "image_id", Purpose: "Boot image for the instance", Example: "ocid1.image.oc1..aaaaexample"},
	"display_name":         {Name: "display_name", Purpose: "Human-friendly name for the resource", Example: "web-server-1"},
	"cidr_block":           {Name: "cidr_block", Purpose: "IPv4 CIDR range", Example: "10.0.0.0/16"},
	"vcn_id":               {Name: "vcn_id", Purpose: "Parent virtual cloud network", Example: "ocid1.vcn.oc1..aaaaexample"},
	"size_in_gbs":          {Name: "size_in_gbs", Purpose: "Volume size in gigabytes", Example: "100"},
	"instance_id":          {Name: "instance_id", Purpose: "Target compute instance", Example: "ocid1.instance.oc1..aaaaexample"},
	"volume_id":            {Name: "volume_id", Purpose: "Target block volume", Example: "ocid1.volume.oc1..aaaaexample"},
	"volume_attachment_id": {Name: "volume_attachment_id", Purpose: "Volume attachment to detach", Example: "ocid1.volumeattachment.oc1..aaaaexample"},
	"bucket_name":          {Name: "bucket_name", Purpose: "Object storage bucket name", Example: "backup-bucket"},
	"user_id":              {Name: "user_id", Purpose: "Target user", Example: "ocid1.user.oc1..aaaaexample"},
	"name":                 {Name: "name", Purpose: "Name for the new resource", Example: "dev-user"},
	"description":          {Name: "description", Purpose: "Short description of the resource", Example: "Developer account"},
	"load_balancer_id":     {Name: "load_balancer_id", Purpose: "Target load balancer", Example: "ocid1.loadbalancer.oc1..aaaaexample"},
	"backend_set_name":     {Name: "backend_set_name", Purpose: "Backend set to modify", Example: "bs-web"},
	"ip_address":           {Name: "ip_address", Purpose: "Backend server address", Example: "10.0.1.12"},
	"port":                 {Name: "port", Purpose: "Backend server port", Example: "8080"},
	"db_system_id":         {Name: "db_system_id", Purpose: "Target database system", Example: "ocid1.dbsystem.oc1..aaaaexample"},
	"zone_name":            {Name: "zone_name", Purpose: "DNS zone name", Example: "example.com"},
	"time_window":          {Name: "time_window", Purpose: "Time range to query", Example: "last 7 days"},
}

// RequiredParams returns the required parameter names for an action.
// Unknown actions return nil.
func RequiredParams(service, action string) []string {
	key := strings.ToLower(strings.TrimSpace(service)) + "/" + strings.ToLower(strings.TrimSpace(action))
	req := requiredParams[key]
	if req == nil {
		return nil
	}
	out := make([]string, len(req))
	copy(out, req)
	return out
}

// SpecFor returns the ParamSpec for a parameter name, synthesizing a
// generic one for names the catalog has never seen.
func SpecFor(name string) model.ParamSpec {
	if spec, ok := paramSpecs[name]; ok {
		return spec
	}
	return model.ParamSpec{
		Name:    name,
		Purpose: fmt.Sprintf("Value for %s", name),
		Example: "",
	}
}

// MissingFor computes which parameters a step has not filled: every
// catalog-required name absent or empty, then any extra param the
// planner declared with an empty value. A parameter counts as filled
// when present with a non-empty value.
func MissingFor(step model.Step) []string {
	required := RequiredParams(step.Service, step.Action)

	var missing []string
	seen := make(map[string]bool, len(required))
	for _, name := range required {
		seen[name] = true
		v, ok := step.Params[name]
		if !ok || isEmptyValue(v) {
			missing = append(missing, name)
		}
	}

	var extra []string
	for name, v := range step.Params {
		if !seen[name] && isEmptyValue(v) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(missing, extra...)
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}
