package main

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/ovs-tnl/tnlport/tnlport"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every port in the fixture registry",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			r, err := buildFixtureRegistry()
			if err != nil {
				return err
			}
			for _, p := range r.Ports() {
				fmt.Printf("%-20s odp=%-4d in_key=%-6d bucket=%d\n",
					p.Name, p.Match.OdpPort, p.Match.InKey, tnlport.BucketIndexOf(p.Match))
			}
			return nil
		},
	}
}

func bucketStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bucket-stats",
		Short: "Show how many ports occupy each of the 12 match-space buckets",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			r, err := buildFixtureRegistry()
			if err != nil {
				return err
			}
			stats := r.BucketStats()
			for i, n := range stats {
				fmt.Printf("bucket %2d: %d port(s)\n", i, n)
			}
			return nil
		},
	}
}

func resolveCmd() *cobra.Command {
	var dstIP string
	var tunID uint64
	var recvPort uint32

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a synthetic received flow against the fixture registry",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ip := net.ParseIP(dstIP)
			if ip == nil || ip.To4() == nil {
				return fmt.Errorf("invalid --dst-ip %q, want a dotted-decimal IPv4 address", dstIP)
			}
			r, err := buildFixtureRegistry()
			if err != nil {
				return err
			}

			var flow tnlport.Flow
			flow.Tunnel.TunID = tunID
			copy(flow.Tunnel.IPv4Dst[:], ip.To4())

			port, ok := r.Receive(recvPort, &flow)
			if !ok {
				fmt.Println("no match")
				return nil
			}
			fmt.Printf("matched port %v\n", port)
			return nil
		},
	}
	cmd.Flags().StringVar(&dstIP, "dst-ip", "", "outer destination IPv4 address (required)")
	cmd.Flags().Uint64Var(&tunID, "tun-id", 0, "tunnel id carried by the flow")
	cmd.Flags().Uint32Var(&recvPort, "recv-port", 0, "datapath port the flow was received on")
	cmd.MarkFlagRequired("dst-ip")
	return cmd
}
