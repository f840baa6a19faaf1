package records

// SampleText 是默认的示例记录，与参数默认值配套。
const SampleText = `15.0	U6.8
30.0	D9.8
40.0	D6.9
45.0	D3.9
50.0	D0.0
55.0	U4.6
60.0	U8.7
65.0	U14.1
70.0	U19.9
75.0	U24.8
80.0	U31.1
85.0	U36.4
90.0	U43.3
95.0-	U49.0
100.0	U56.2
105.0	U63.8
110.0	U70.0
115.0-	U77.9
120.0	U84.4
125.0-	U92.8
130.0-	U99.7
135.0	U108.5
140.0	U117.5
145.0	U124.9
150.0	U134.3
155.0	U142.0
160.0	U151.9
165.0	U160.0
170.0	U170.4
175.0	U181.0
180.0	U189.6
185.0	U200.7
190.0	U209.8
195.0	U221.4
`
