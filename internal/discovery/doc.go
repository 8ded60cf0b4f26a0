// Package discovery finds wolapp servers on the local network over mDNS.
//
// wolapp servers advertise the "_wolapp._tcp" service type. A scan browses
// for the configured timeout and returns every server that answered:
//
//	scanner := discovery.NewScanner()
//	servers, err := scanner.Scan(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, s := range servers {
//	    fmt.Println(s.Instance, s.BaseURL())
//	}
//
// First returns as soon as one server answers, for scripts that only need
// an address.
package discovery
