// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package emit

import (
	"strings"
	"testing"

	"github.com/oxidecomputer/p4c-go/pkg/ast"
	"github.com/oxidecomputer/p4c-go/pkg/hlir"
	"github.com/oxidecomputer/p4c-go/pkg/parse"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) (*ast.AST, *hlir.Result) {
	t.Helper()

	tree, err := parse.Parse("test.p4", strings.Split(src, "\n"), false)
	require.NoError(t, err)

	hres, bag := hlir.Generate(tree)
	require.False(t, bag.HasErrors())

	return tree, hres
}

const samplePipeline = `
header ethernet_t {
    bit<48> dst_addr;
    bit<48> src_addr;
    bit<16> ether_type;
}

parser MyParser(inout ethernet_t hdr) {
    state start {
        hdr.ether_type = 16w0x0800;
        transition accept;
    }
}

control MyControl(inout ethernet_t hdr) {
    action drop() {
        hdr.setInvalid();
    }

    action forward(bit<16> port) {
        hdr.ether_type = port;
    }

    table dispatch {
        key = { hdr.ether_type: exact; }
        actions = { forward; drop; }
        default_action = drop;
        const entries = {
            16w0x0806 : forward(16w9);
        }
    }

    apply {
        dispatch.apply();
    }
}
`

func TestEmitRustProducesHeaderAndTableConstructor(t *testing.T) {
	tree, hres := mustParse(t, samplePipeline)

	out, err := Emit(tree, hres, TargetRust)
	require.NoError(t, err)
	require.Contains(t, out, "pub struct ethernet_t")
	require.Contains(t, out, "pub fn MyControl_dispatch_table() -> Table<1, Box<dyn Fn(&mut ethernet_t)>>")
	require.Contains(t, out, "pub fn MyControl_apply(")
}

func TestEmitRustPipelineOwnsTablesAndFunctionPointers(t *testing.T) {
	tree, hres := mustParse(t, samplePipeline)

	out, err := Emit(tree, hres, TargetRust)
	require.NoError(t, err)
	require.NotContains(t, out, "pub struct Pipeline;")
	require.Contains(t, out, "pub struct Pipeline {")
	require.Contains(t, out, "pub dispatch_table: Table<1, Box<dyn Fn(&mut ethernet_t)>>,")
	require.Contains(t, out, "parse: MyParser_start,")
	require.Contains(t, out, "control: MyControl_apply,")
}

func TestEmitRustProcessPacketDecodesAndDispatches(t *testing.T) {
	tree, hres := mustParse(t, samplePipeline)

	out, err := Emit(tree, hres, TargetRust)
	require.NoError(t, err)
	require.Contains(t, out, "pub fn process_packet(&mut self, port: u32, packet: &[u8]) -> Option<(Vec<u8>, u32)> {")
	require.Contains(t, out, "hdr.set(packet);")
	require.Contains(t, out, "(self.parse)(")
	require.Contains(t, out, "(self.control)(")
	require.Contains(t, out, "hdr.to_bitvec();")
	require.NotContains(t, out, "let _ = (port, packet);")
}

func TestEmitRustAddRemoveTableEntryDispatchOnTableName(t *testing.T) {
	tree, hres := mustParse(t, samplePipeline)

	out, err := Emit(tree, hres, TargetRust)
	require.NoError(t, err)
	require.Contains(t, out, `"dispatch" => {`)
	require.Contains(t, out, "self.dispatch_table.insert(key, priority, MyControl_resolve_action(action, args));")
	require.Contains(t, out, "self.dispatch_table.entries.retain(|e| e.key != key);")
}

func TestEmitRustTableConstructorUsesTaggedKeys(t *testing.T) {
	tree, hres := mustParse(t, samplePipeline)

	out, err := Emit(tree, hres, TargetRust)
	require.NoError(t, err)
	require.Contains(t, out, "Key::Exact(")
}

func TestEmitRustHeaderHasSetAndBitExactToBitvec(t *testing.T) {
	tree, hres := mustParse(t, samplePipeline)

	out, err := Emit(tree, hres, TargetRust)
	require.NoError(t, err)
	require.Contains(t, out, "pub fn set(&mut self, buf: &[u8]) {")
	require.Contains(t, out, "unpack_bits(buf, 0, 48)")
	require.Contains(t, out, "pack_bits(&mut out, self.dst_addr as u128, 0, 48);")
	require.Contains(t, out, "pack_bits(&mut out, self.ether_type as u128, 96, 16);")
}

func TestEmitRustLpmTableUsesPrefixKey(t *testing.T) {
	const src = `
header ipv4_t {
    bit<32> dst_addr;
}

parser MyParser(inout ipv4_t hdr) {
    state start {
        transition accept;
    }
}

control Route(inout ipv4_t hdr) {
    action hit() {
        hdr.dst_addr = 32w0;
    }

    action miss() {
        hdr.setInvalid();
    }

    table routes {
        key = { hdr.dst_addr: lpm; }
        actions = { hit; miss; }
        default_action = miss;
        const entries = {
            { 32w0x0A000000, 8 } : hit();
        }
    }

    apply {
        routes.apply();
    }
}
`
	tree, hres := mustParse(t, src)

	out, err := Emit(tree, hres, TargetRust)
	require.NoError(t, err)
	require.Contains(t, out, "Key::Lpm(Prefix { addr:")
}

func TestEmitRedhawkProducesDirectives(t *testing.T) {
	tree, hres := mustParse(t, samplePipeline)

	out, err := Emit(tree, hres, TargetRedhawk)
	require.NoError(t, err)
	require.Contains(t, out, ".header ethernet_t")
	require.Contains(t, out, ".table dispatch")
	require.Contains(t, out, ".pipeline")
}

func TestEmitDocsProducesMemberTable(t *testing.T) {
	tree, hres := mustParse(t, samplePipeline)

	out, err := Emit(tree, hres, TargetDocs)
	require.NoError(t, err)
	require.Contains(t, out, "### header `ethernet_t`")
	require.Contains(t, out, "| ether_type |")
	require.Contains(t, out, "## control `MyControl`")
}

func TestEmitUnknownTargetIsError(t *testing.T) {
	tree, hres := mustParse(t, samplePipeline)

	_, err := Emit(tree, hres, Target("bogus"))
	require.Error(t, err)
}

func TestLayoutMembersAssignsContiguousOffsets(t *testing.T) {
	tree, _ := mustParse(t, samplePipeline)

	layouts, total, err := layoutMembers(tree.Headers[0].Members)
	require.NoError(t, err)
	require.Equal(t, uint(112), total)
	require.Equal(t, uint(0), layouts[0].Offset)
	require.Equal(t, uint(48), layouts[1].Offset)
	require.Equal(t, uint(96), layouts[2].Offset)
	require.Equal(t, uint(16), layouts[2].Width)
}
